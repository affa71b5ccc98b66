package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marketplace/storefront/internal/core/domain"
)

var (
	supplierFilter domain.SupplierFilter
	newSupplier    domain.NewSupplier
	supplierEdit   struct{ name, phone, email, address string }
)

var suppliersCmd = &cobra.Command{
	Use:     "suppliers",
	Aliases: []string{"supplier"},
	Short:   "List suppliers, or manage them as an admin",
}

var suppliersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suppliers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runSuppliersList(ctx, w, supplierFilter)
		})(cmd, args)
	},
}

var suppliersShowCmd = &cobra.Command{
	Use:   "show <supplier-code>",
	Short: "Show one supplier",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runSuppliersShow(ctx, w, args[0])
		})(cmd, args)
	},
}

var suppliersCreateCmd = &cobra.Command{
	Use:   "create <supplier-code>",
	Short: "Register a supplier (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := newSupplier
		in.Code = args[0]
		run(func(ctx context.Context, w io.Writer) int {
			return runSuppliersCreate(ctx, w, in)
		})(cmd, args)
	},
}

var suppliersUpdateCmd = &cobra.Command{
	Use:   "update <supplier-code>",
	Short: "Change a supplier's details (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var u domain.SupplierUpdate
		changed := cmd.Flags().Changed
		if changed("name") {
			u.Name = &supplierEdit.name
		}
		if changed("phone") {
			u.Phone = &supplierEdit.phone
		}
		if changed("email") {
			u.Email = &supplierEdit.email
		}
		if changed("address") {
			u.Address = &supplierEdit.address
		}
		run(func(ctx context.Context, w io.Writer) int {
			return runSuppliersUpdate(ctx, w, args[0], u)
		})(cmd, args)
	},
}

var suppliersDeleteCmd = &cobra.Command{
	Use:   "delete <supplier-code>",
	Short: "Delete an inactive supplier with no products (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runSuppliersDelete(ctx, w, args[0])
		})(cmd, args)
	},
}

var suppliersActivateCmd = &cobra.Command{
	Use:   "activate <supplier-code>",
	Short: "Mark a supplier active (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runSuppliersSetStatus(ctx, w, args[0], true)
		})(cmd, args)
	},
}

var suppliersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <supplier-code>",
	Short: "Mark a supplier inactive (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runSuppliersSetStatus(ctx, w, args[0], false)
		})(cmd, args)
	},
}

func init() {
	f := suppliersListCmd.Flags()
	f.StringVar(&supplierFilter.Name, "name", "", "Match supplier names containing this text")
	f.StringVar(&supplierFilter.Status, "status", "", "Only this status: active or inactive")

	c := suppliersCreateCmd.Flags()
	c.StringVar(&newSupplier.Name, "name", "", "Supplier name")
	c.StringVar(&newSupplier.Phone, "phone", "", "Contact phone")
	c.StringVar(&newSupplier.Email, "email", "", "Contact email")
	c.StringVar(&newSupplier.Address, "address", "", "Postal address")
	for _, name := range []string{"name", "phone", "email", "address"} {
		_ = suppliersCreateCmd.MarkFlagRequired(name)
	}

	u := suppliersUpdateCmd.Flags()
	u.StringVar(&supplierEdit.name, "name", "", "New name")
	u.StringVar(&supplierEdit.phone, "phone", "", "New phone")
	u.StringVar(&supplierEdit.email, "email", "", "New email")
	u.StringVar(&supplierEdit.address, "address", "", "New address")
	suppliersUpdateCmd.MarkFlagsOneRequired("name", "phone", "email", "address")

	suppliersCmd.AddCommand(suppliersListCmd, suppliersShowCmd, suppliersCreateCmd, suppliersUpdateCmd,
		suppliersDeleteCmd, suppliersActivateCmd, suppliersDeactivateCmd)
	rootCmd.AddCommand(suppliersCmd)
}

func runSuppliersList(ctx context.Context, w io.Writer, filter domain.SupplierFilter) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	suppliers, err := a.Suppliers.List(ctx, filter)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"suppliers": suppliers, "count": len(suppliers)})
		return exitOK
	}
	fmt.Fprintln(w, formatSuppliersHuman(suppliers))
	return exitOK
}

func runSuppliersShow(ctx context.Context, w io.Writer, supplierCode string) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	s, err := a.Suppliers.Get(ctx, supplierCode)
	if err != nil {
		return fail(w, err)
	}
	return printSupplier(w, s)
}

func runSuppliersCreate(ctx context.Context, w io.Writer, in domain.NewSupplier) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	s, err := a.Suppliers.Create(ctx, in)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"supplier": s})
		return exitOK
	}
	fmt.Fprintf(w, "%s Created %s (%s)\n", okStyle.Render("✓"), s.Code, s.Name)
	return exitOK
}

func runSuppliersUpdate(ctx context.Context, w io.Writer, supplierCode string, update domain.SupplierUpdate) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	s, err := a.Suppliers.Update(ctx, supplierCode, update)
	if err != nil {
		return fail(w, err)
	}
	return printSupplier(w, s)
}

func runSuppliersDelete(ctx context.Context, w io.Writer, supplierCode string) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	if err := a.Suppliers.Delete(ctx, supplierCode); err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"deleted": supplierCode})
		return exitOK
	}
	fmt.Fprintf(w, "%s Deleted %s\n", okStyle.Render("✓"), supplierCode)
	return exitOK
}

func runSuppliersSetStatus(ctx context.Context, w io.Writer, supplierCode string, active bool) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	set := a.Suppliers.Deactivate
	if active {
		set = a.Suppliers.Activate
	}
	s, err := set(ctx, supplierCode)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"supplier": s})
		return exitOK
	}
	fmt.Fprintf(w, "%s %s is now %s\n", okStyle.Render("✓"), s.Code, supplierStatusLabel(s.Status))
	return exitOK
}

func printSupplier(w io.Writer, s *domain.Supplier) int {
	if jsonOutput {
		printJSON(w, map[string]any{"supplier": s})
		return exitOK
	}
	fmt.Fprintln(w, formatSupplierHuman(s))
	return exitOK
}
