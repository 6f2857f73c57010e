package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
	"github.com/timofei-ponomarev/tp-client/pkg/tpclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Common static errors used throughout the commands package.
var (
	ErrAPIEndpointRequired = errors.New("API endpoint is required (use --api, TPC_API, or run 'tpc login')")
	ErrEntityIDRequired    = errors.New("entity ID is required")
	ErrInvalidEntityID     = errors.New("entity ID must be a number")
	ErrTokenRequired       = errors.New("access token is required")
	ErrBodyRequired        = errors.New("request body is required (use --data or --file)")
)

// CreateClient creates a tp.Client from the effective viper configuration.
func CreateClient(ctx context.Context) (tp.Client, error) {
	endpoint := viper.GetString("api")
	if endpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	config := &tp.Config{
		APIEndpoint: endpoint,
		AccessToken: viper.GetString("token"),
		Username:    viper.GetString("username"),
		Password:    viper.GetString("password"),
		Debug:       viper.GetBool("verbose"),
	}

	client, err := tpclient.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// ParseEntityID parses a positional entity ID argument.
func ParseEntityID(arg string) (int, error) {
	if arg == "" {
		return 0, ErrEntityIDRequired
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntityID, arg)
	}

	return id, nil
}

// OutputJSON writes a value to stdout as indented JSON.
func OutputJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode as JSON: %w", err)
	}

	return nil
}

// OutputYAML writes a value to stdout as YAML.
func OutputYAML(value interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode as YAML: %w", err)
	}

	return nil
}

// OutputEntities renders entities in the configured output format.
func OutputEntities(entities []tp.Entity) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return OutputJSON(entities)
	case OutputFormatYAML:
		return OutputYAML(entities)
	default:
		return outputEntitiesTable(entities)
	}
}

func outputEntitiesTable(entities []tp.Entity) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Type", "Name")

	for _, entity := range entities {
		name := entity.Name()
		if name == "" {
			name = NotAvailable
		}

		entityType := entity.EntityType()
		if entityType == "" {
			entityType = NotAvailable
		}

		_ = table.Append(strconv.Itoa(entity.ID()), entityType, name)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// OutputEntity renders a single entity in the configured output format.
func OutputEntity(entity tp.Entity) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return OutputJSON(entity)
	case OutputFormatYAML:
		return OutputYAML(entity)
	default:
		return outputEntitiesTable([]tp.Entity{entity})
	}
}
