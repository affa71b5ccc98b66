package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marketplace/storefront/internal/core/domain"
)

var (
	productFilter domain.ProductFilter
	newProduct    domain.NewProduct
	productEdit   productFlags
)

// productFlags holds the update flags; only the ones set on the command
// line end up in the update.
type productFlags struct {
	name, category, supplier, status, description string
	price                                         float64
	quantity                                      int
}

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Browse the catalog, or maintain it as an admin",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runProductsList(ctx, w, productFilter)
		})(cmd, args)
	},
}

var productsShowCmd = &cobra.Command{
	Use:   "show <product-code>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runProductsShow(ctx, w, args[0])
		})(cmd, args)
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create <product-code>",
	Short: "Add a product to the catalog (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := newProduct
		in.Code = args[0]
		run(func(ctx context.Context, w io.Writer) int {
			return runProductsCreate(ctx, w, in)
		})(cmd, args)
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <product-code>",
	Short: "Change a catalog entry (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		update := productEdit.update(cmd)
		run(func(ctx context.Context, w io.Writer) int {
			return runProductsUpdate(ctx, w, args[0], update)
		})(cmd, args)
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <product-code>",
	Short: "Remove a product from the catalog (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runProductsDelete(ctx, w, args[0])
		})(cmd, args)
	},
}

func init() {
	f := productsListCmd.Flags()
	f.StringVar(&productFilter.Name, "name", "", "Match product names containing this text")
	f.StringVar(&productFilter.Category, "category", "", "Only this category")
	f.StringVar(&productFilter.SupplierID, "supplier", "", "Only this supplier id")
	f.StringVar(&productFilter.Status, "status", "", "Only this status, e.g. active")

	c := productsCreateCmd.Flags()
	c.StringVar(&newProduct.Name, "name", "", "Product name")
	c.StringVar(&newProduct.SupplierID, "supplier", "", "Supplier code")
	c.StringVar(&newProduct.Category, "category", "", "Category")
	c.Float64Var(&newProduct.SellPrice, "price", 0, "Sell price")
	c.IntVar(&newProduct.TotalQuantity, "quantity", 0, "Units in stock")
	c.StringVar(&newProduct.Status, "status", "", "active or inactive (default active)")
	c.StringVar(&newProduct.Description, "description", "", "Description")
	_ = productsCreateCmd.MarkFlagRequired("name")
	_ = productsCreateCmd.MarkFlagRequired("supplier")

	u := productsUpdateCmd.Flags()
	u.StringVar(&productEdit.name, "name", "", "New name")
	u.StringVar(&productEdit.supplier, "supplier", "", "New supplier code")
	u.StringVar(&productEdit.category, "category", "", "New category")
	u.Float64Var(&productEdit.price, "price", 0, "New sell price")
	u.IntVar(&productEdit.quantity, "quantity", 0, "New stock level")
	u.StringVar(&productEdit.status, "status", "", "active or inactive")
	u.StringVar(&productEdit.description, "description", "", "New description")
	productsUpdateCmd.MarkFlagsOneRequired("name", "supplier", "category", "price", "quantity", "status", "description")

	productsCmd.AddCommand(productsListCmd, productsShowCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd)
	rootCmd.AddCommand(productsCmd)
}

func runProductsList(ctx context.Context, w io.Writer, filter domain.ProductFilter) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	products, err := a.Catalog.List(ctx, filter)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"products": products, "count": len(products)})
		return exitOK
	}
	fmt.Fprintln(w, formatProductsHuman(products))
	return exitOK
}

func runProductsShow(ctx context.Context, w io.Writer, productCode string) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	p, err := a.Catalog.Get(ctx, productCode)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"product": p})
		return exitOK
	}
	fmt.Fprintln(w, formatProductHuman(p))
	return exitOK
}

func (p productFlags) update(cmd *cobra.Command) domain.ProductUpdate {
	var u domain.ProductUpdate
	changed := cmd.Flags().Changed
	if changed("name") {
		u.Name = &p.name
	}
	if changed("supplier") {
		u.SupplierID = &p.supplier
	}
	if changed("category") {
		u.Category = &p.category
	}
	if changed("price") {
		u.SellPrice = &p.price
	}
	if changed("quantity") {
		u.TotalQuantity = &p.quantity
	}
	if changed("status") {
		u.Status = &p.status
	}
	if changed("description") {
		u.Description = &p.description
	}
	return u
}

func runProductsCreate(ctx context.Context, w io.Writer, in domain.NewProduct) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	p, err := a.Catalog.Create(ctx, in)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"product": p})
		return exitOK
	}
	fmt.Fprintf(w, "%s Created %s (%s)\n", okStyle.Render("✓"), p.Code, p.Name)
	return exitOK
}

func runProductsUpdate(ctx context.Context, w io.Writer, productCode string, update domain.ProductUpdate) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	p, err := a.Catalog.Update(ctx, productCode, update)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"product": p})
		return exitOK
	}
	fmt.Fprintln(w, formatProductHuman(p))
	return exitOK
}

func runProductsDelete(ctx context.Context, w io.Writer, productCode string) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	if err := a.Catalog.Delete(ctx, productCode); err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"deleted": productCode})
		return exitOK
	}
	fmt.Fprintf(w, "%s Deleted %s\n", okStyle.Render("✓"), productCode)
	return exitOK
}
