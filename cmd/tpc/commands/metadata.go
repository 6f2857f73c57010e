package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewMetadataCommand creates the metadata command.
func NewMetadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Show instance metadata",
		Long:  "Fetch the instance metadata document listing the available entity types",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := client.FetchMetadata(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching metadata: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return OutputJSON(doc)
			case OutputFormatYAML:
				return OutputYAML(doc)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "Description")

				for _, item := range doc.Items {
					description := item.Description
					if description == "" {
						description = NotAvailable
					}

					_ = table.Append(item.Name, description)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			}
		},
	}
}
