package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "get <entity-type> <id>",
		Short: "Get an entity by ID",
		Long:  "Get a single entity of the given type by its numeric ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ParseEntityID(args[1])
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			entity, err := client.GetEntity(cmd.Context(), args[0], id, include)
			if err != nil {
				return fmt.Errorf("getting %s %d: %w", args[0], id, err)
			}

			return OutputEntity(entity)
		},
	}

	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "related entities to include")

	return cmd
}
