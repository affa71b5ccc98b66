package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marketplace/storefront/internal/core/domain"
)

var (
	orderFilter      domain.OrderFilter
	newOrderStatus   string
	newPaymentStatus string
)

var ordersCmd = &cobra.Command{
	Use:     "orders",
	Aliases: []string{"order"},
	Short:   "View your orders, or manage all orders as an admin",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runOrdersList(ctx, w, orderFilter)
		})(cmd, args)
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runOrdersShow(ctx, w, args[0])
		})(cmd, args)
	},
}

var ordersSetStatusCmd = &cobra.Command{
	Use:   "set-status <order-id>",
	Short: "Change order or payment status (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runOrdersSetStatus(ctx, w, args[0], statusUpdate(newOrderStatus, newPaymentStatus))
		})(cmd, args)
	},
}

var ordersDeleteCmd = &cobra.Command{
	Use:   "delete <order-id>",
	Short: "Delete an order (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runOrdersDelete(ctx, w, args[0])
		})(cmd, args)
	},
}

func init() {
	f := ordersListCmd.Flags()
	f.StringVar((*string)(&orderFilter.OrderStatus), "status", "", "Only orders in this status: processing, success or cancelled")
	f.StringVar((*string)(&orderFilter.PaymentStatus), "payment-status", "", "Only orders with this payment status: pending or completed")
	f.StringVar(&orderFilter.CustomerID, "customer", "", "Only this customer's orders (admin)")

	ordersSetStatusCmd.Flags().StringVar(&newOrderStatus, "order-status", "", "New order status: processing, success or cancelled")
	ordersSetStatusCmd.Flags().StringVar(&newPaymentStatus, "payment-status", "", "New payment status: pending or completed")
	ordersSetStatusCmd.MarkFlagsOneRequired("order-status", "payment-status")

	ordersCmd.AddCommand(ordersListCmd, ordersShowCmd, ordersSetStatusCmd, ordersDeleteCmd)
	rootCmd.AddCommand(ordersCmd)
}

func statusUpdate(orderStatus, paymentStatus string) domain.StatusUpdate {
	var u domain.StatusUpdate
	if orderStatus != "" {
		s := domain.OrderStatus(orderStatus)
		u.OrderStatus = &s
	}
	if paymentStatus != "" {
		s := domain.PaymentStatus(paymentStatus)
		u.PaymentStatus = &s
	}
	return u
}

func runOrdersList(ctx context.Context, w io.Writer, filter domain.OrderFilter) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	orders, err := a.Orders.List(ctx, filter)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"orders": orders, "count": len(orders)})
		return exitOK
	}
	fmt.Fprintln(w, formatOrdersHuman(orders))
	return exitOK
}

func runOrdersShow(ctx context.Context, w io.Writer, orderID string) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	order, err := a.Orders.Get(ctx, orderID)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"order": order})
		return exitOK
	}
	fmt.Fprintln(w, formatOrderHuman(order))
	return exitOK
}

func runOrdersSetStatus(ctx context.Context, w io.Writer, orderID string, update domain.StatusUpdate) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	order, err := a.Orders.UpdateStatus(ctx, orderID, update)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"order": order})
		return exitOK
	}
	fmt.Fprintf(w, "%s %s is now %s, payment %s\n", okStyle.Render("✓"), order.OrderID,
		statusLabel(string(order.OrderStatus)), statusLabel(string(order.PaymentStatus)))
	return exitOK
}

func runOrdersDelete(ctx context.Context, w io.Writer, orderID string) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	if err := a.Orders.Delete(ctx, orderID); err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"deleted": orderID})
		return exitOK
	}
	fmt.Fprintf(w, "%s Deleted %s\n", okStyle.Render("✓"), orderID)
	return exitOK
}
