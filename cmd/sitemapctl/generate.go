package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newGenerateCommand(root *rootOptions) *cobra.Command {
	var (
		locale string
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate <host>",
		Short: "Write the sitemap of a host",
		Long: `Write the sitemap index of a host, or the urlset of one of its
languages when --locale is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := root.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			doc, err := env.services.Compiler.Compile(cmd.Context(), args[0], locale)
			if err != nil {
				return err
			}

			if err = writeSitemap(cmd.OutOrStdout(), output, doc.Body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s sitemap for %s: %d entries\n", doc.Mode, doc.Site, doc.URLs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "language to emit as a urlset")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

// writeSitemap writes body to output, or to stdout when output is empty.
// A failed close is reported since the file may be incomplete.
func writeSitemap(stdout io.Writer, output string, body []byte) (err error) {
	if output == "" {
		if _, err = stdout.Write(body); err != nil {
			return fmt.Errorf("write sitemap: %w", err)
		}
		return nil
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", output, closeErr)
		}
	}()

	if _, err = f.Write(body); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}
