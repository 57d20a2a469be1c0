package cli

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/noah-isme/gema-quiz-api/internal/service"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the sample questions when the question store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, closeStores, err := openQuestionService(cmd, opts)
			if err != nil {
				return err
			}
			defer closeStores()

			seeded, err := questions.SeedSamples(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "sample questions written")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "question store not empty, nothing to do")
			}
			return nil
		},
	}
}

func newCleanupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-whitespace",
		Short: "Trim leading and trailing whitespace from every stored question",
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, closeStores, err := openQuestionService(cmd, opts)
			if err != nil {
				return err
			}
			defer closeStores()

			cleaned, err := questions.CleanupWhitespace(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned: %t\n", cleaned)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash suitable for QUIZ_ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

func openQuestionService(cmd *cobra.Command, opts *rootOptions) (service.QuestionService, func(), error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)

	s, err := openStores(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return service.NewQuestionService(s.questions, validator.New(), logger), s.Close, nil
}
