package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// NewCommentCommand creates the comment command.
func NewCommentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment <entity-id> <text>",
		Short: "Add a comment to an entity",
		Long: `Add a comment to an entity by its numeric ID.

The comment text may contain HTML markup:

  tpc comment 1234 "Deployed to staging"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ParseEntityID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			comment, err := client.CreateComment(cmd.Context(), &tp.CommentCreateRequest{
				Description: args[1],
				General:     tp.GeneralRef{ID: id},
			})
			if err != nil {
				return fmt.Errorf("commenting on entity %d: %w", id, err)
			}

			return OutputEntity(comment)
		},
	}

	return cmd
}
