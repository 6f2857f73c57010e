package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var (
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "create <entity-type>",
		Short: "Create an entity",
		Long: `Create an entity of the given type from a JSON body.

The body is passed inline with --data or read from a file with --file:

  tpc create UserStory --data '{"Name":"New story","Project":{"Id":42}}'
  tpc create Bug --file bug.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := readEntityBody(data, file)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			entity, err := client.CreateEntity(cmd.Context(), args[0], fields)
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}

			return OutputEntity(entity)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body")
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a JSON body file")

	return cmd
}

// readEntityBody loads an entity body from --data or --file.
func readEntityBody(data, file string) (map[string]interface{}, error) {
	raw := []byte(data)

	if data == "" {
		if file == "" {
			return nil, ErrBodyRequired
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}

		raw = content
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse body as JSON: %w", err)
	}

	return fields, nil
}
