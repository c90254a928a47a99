package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFieldsCmd(remote *remoteFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List or declare fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote.client()
			if err != nil {
				return err
			}
			fields, err := c.Fields(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tTYPE")
			for _, f := range fields {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Type)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <type>",
		Short: "Declare a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote.client()
			if err != nil {
				return err
			}
			created, err := c.AddField(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			state := "exists"
			if created {
				state = "created"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", args[0], args[1], state)
			return err
		},
	})

	return cmd
}

func newTypesCmd(remote *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered value types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := remote.client()
			if err != nil {
				return err
			}
			types, err := c.Types(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TYPE\tRESOLVER\tGO TYPE")
			for _, t := range types {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", t.Type, t.Resolver, t.GoType)
			}
			return w.Flush()
		},
	}
}

func newQueryCmd(remote *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query <field> <text>",
		Short: "Print the ids of documents whose field matches text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote.client()
			if err != nil {
				return err
			}
			ids, err := c.QueryField(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			for _, id := range ids {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
