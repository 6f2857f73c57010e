package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// SearchOptions holds the options for searching entities.
type SearchOptions struct {
	Where   string
	Include []string
	OrderBy []string
	Take    int
	All     bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "search <entity-type>",
		Short: "Search entities",
		Long: `Search entities of the given type using the simplified filter language.

Conditions are joined with "and"; values are quoted automatically:

  tpc search UserStory --where "EntityState.Name eq 'Open' and Effort gt 5"
  tpc search Bug --include Project,Team --order-by "CreateDate desc" --take 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchCommand(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "filter expression")
	cmd.Flags().StringSliceVarP(&opts.Include, "include", "i", nil, "related entities to include")
	cmd.Flags().StringSliceVar(&opts.OrderBy, "order-by", nil, "ordering terms, e.g. 'CreateDate desc'")
	cmd.Flags().IntVar(&opts.Take, "take", constants.StandardPageSize, "results per page")
	cmd.Flags().BoolVar(&opts.All, "all", false, "fetch all pages")

	return cmd
}

func runSearchCommand(cmd *cobra.Command, entityType string, opts SearchOptions) error {
	client, err := CreateClient(cmd.Context())
	if err != nil {
		return err
	}

	params := tp.NewQueryParams().WithTake(opts.Take)

	if opts.Where != "" {
		params.WithWhere(opts.Where)
	}

	if len(opts.Include) > 0 {
		params.WithInclude(opts.Include...)
	}

	for _, term := range opts.OrderBy {
		field, direction := parseOrderByTerm(term)
		params.WithOrderBy(field, direction)
	}

	if opts.All {
		entities, err := client.SearchAllEntities(cmd.Context(), entityType, params)
		if err != nil {
			return fmt.Errorf("searching %s: %w", entityType, err)
		}

		return OutputEntities(entities)
	}

	result, err := client.SearchEntities(cmd.Context(), entityType, params)
	if err != nil {
		return fmt.Errorf("searching %s: %w", entityType, err)
	}

	return OutputEntities(result.Items)
}

// parseOrderByTerm splits "Field desc" into field and direction.
func parseOrderByTerm(term string) (string, tp.Direction) {
	parts := strings.Fields(term)
	if len(parts) == 2 && strings.EqualFold(parts[1], string(tp.Desc)) {
		return parts[0], tp.Desc
	}

	if len(parts) == 2 && strings.EqualFold(parts[1], string(tp.Asc)) {
		return parts[0], tp.Asc
	}

	return term, ""
}
