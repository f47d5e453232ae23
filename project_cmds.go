package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpupo63/unified-personal-site-admin/errs"
	"github.com/rpupo63/unified-personal-site-admin/form"
	"github.com/rpupo63/unified-personal-site-admin/models"
)

// projectFlags binds one flag per project field. Only flags the user set end up in the patch.
type projectFlags struct {
	values map[string]*string
}

func bindProjectFlags(cmd *cobra.Command) *projectFlags {
	pf := &projectFlags{values: make(map[string]*string, len(models.ProjectFields))}
	usage := map[string]string{
		"name":        "project name",
		"category":    fmt.Sprintf("project category (%s, %s or %s)", models.CategoryHTML5, models.CategoryCSS3, models.CategoryJavascript),
		"description": "project description",
		"tech_stack":  "technologies used",
		"repository":  "repository URL",
		"url":         "live URL",
		"image":       "image URL",
	}
	for _, field := range models.ProjectFields {
		pf.values[field] = cmd.Flags().String(flagName(field), "", usage[field])
	}
	return pf
}

func flagName(field string) string {
	if field == "tech_stack" {
		return "tech-stack"
	}
	return field
}

func (pf *projectFlags) patch(cmd *cobra.Command) models.ProjectPatch {
	var patch models.ProjectPatch
	for _, field := range models.ProjectFields {
		if cmd.Flags().Changed(flagName(field)) {
			patch.Set(field, *pf.values[field])
		}
	}
	return patch
}

func printNavigator(cmd *cobra.Command) form.Navigator {
	return form.NavigatorFunc(func(route string) {
		fmt.Fprintf(cmd.OutOrStdout(), "-> %s\n", route)
	})
}

func newCreateCmd(a *app) *cobra.Command {
	var flags *projectFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := form.New(a.client, printNavigator(cmd), "", form.WithListingRoute(a.settings.ListingRoute))
			f.Update(flags.patch(cmd))
			if err := f.Submit(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "project created")
			return nil
		},
	}
	flags = bindProjectFlags(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var flags *projectFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a project; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			f := form.New(a.client, printNavigator(cmd), id, form.WithListingRoute(a.settings.ListingRoute))

			switch state := f.Mount(cmd.Context()); state.Status {
			case form.LoadNotFound:
				return errs.NewNotFound("project", id)
			case form.LoadFailed:
				return fmt.Errorf("load project %s: %s", id, state.Reason)
			}

			f.Update(flags.patch(cmd))
			if err := f.Submit(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "project updated")
			return nil
		},
	}
	flags = bindProjectFlags(cmd)
	return cmd
}
