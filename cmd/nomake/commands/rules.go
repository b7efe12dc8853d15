package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules loaded from the rule base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			rules, err := c.app.ListRules(configPath)
			if err != nil {
				return err
			}

			for _, rule := range rules {
				names := make([]string, len(rule.Targets))
				for i, t := range rule.Targets {
					names[i] = t.String()
				}

				kind := "group"
				switch {
				case rule.IsCommand:
					kind = "command"
				case rule.IsCopy:
					kind = "copy"
				case rule.IsHardcode:
					kind = "hardcoded"
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d deps\n", strings.Join(names, " "), kind, len(rule.Dependencies))
			}
			return nil
		},
	}
	return cmd
}
