package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewTypesCommand creates the types command.
func NewTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List valid entity types",
		Long:  "List the entity type names accepted by the instance, including custom types",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			types, err := client.GetValidEntityTypes(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing entity types: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return OutputJSON(types)
			case OutputFormatYAML:
				return OutputYAML(types)
			default:
				for _, name := range types {
					cmd.Println(name)
				}

				return nil
			}
		},
	}
}
