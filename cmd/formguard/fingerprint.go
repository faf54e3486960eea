package main

import (
	"fmt"
	"net/url"
	"strings"

	"middleware-formguard/middleware/dupguard/application"

	"github.com/spf13/cobra"
)

func newFingerprintCmd() *cobra.Command {
	var (
		formID int
		hash   string
		body   string
		ignore []string
	)

	cmd := &cobra.Command{
		Use:   "fingerprint [key=value ...]",
		Short: "Print the fingerprint a submission would produce",
		Example: `  formguard fingerprint --form 1 input_1=Jane input_2=jane@x.com
  formguard fingerprint --form 1 --body 'input_1=Jane&input_2=jane%40x.com'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSubmission(body, args)
			if err != nil {
				return err
			}
			h, err := application.ParseHash(hash)
			if err != nil {
				return err
			}
			fp := application.Fingerprinter{Hash: h, Ignore: ignore}
			fmt.Fprintln(cmd.OutOrStdout(), fp.Fingerprint(formID, values))
			return nil
		},
	}
	cmd.Flags().IntVar(&formID, "form", 1, "form id")
	cmd.Flags().StringVar(&hash, "hash", "md5", "hash function: md5, xxhash")
	cmd.Flags().StringVar(&body, "body", "", "url-encoded submission body")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "keys left out of the fingerprint")
	return cmd
}

// parseSubmission junta o corpo url-encoded com os pares key=value dos args.
func parseSubmission(body string, pairs []string) (url.Values, error) {
	values := url.Values{}
	if body != "" {
		parsed, err := url.ParseQuery(body)
		if err != nil {
			return nil, fmt.Errorf("parse body: %w", err)
		}
		values = parsed
	}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid pair %q, want key=value", p)
		}
		values.Add(k, v)
	}
	return values, nil
}
