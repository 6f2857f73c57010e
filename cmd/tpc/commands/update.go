package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var (
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "update <entity-type> <id>",
		Short: "Update an entity",
		Long: `Update an existing entity with the fields from a JSON body.

Only the fields present in the body are changed:

  tpc update UserStory 1234 --data '{"Name":"Renamed story"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ParseEntityID(args[1])
			if err != nil {
				return err
			}

			fields, err := readEntityBody(data, file)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			entity, err := client.UpdateEntity(cmd.Context(), args[0], id, fields)
			if err != nil {
				return fmt.Errorf("updating %s %d: %w", args[0], id, err)
			}

			return OutputEntity(entity)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body")
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a JSON body file")

	return cmd
}
