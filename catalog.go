package main

import (
	"fmt"
	"io"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/catalog"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/memory"
	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print products, payment methods and cash registers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout(), category)
		},
	}
	cmd.Flags().StringVar(&category, "category", catalog.AllCategories, "only list products of this category")
	return cmd
}

func printCatalog(w io.Writer, category string) error {
	var cat catalog.Catalog = memory.NewCatalog()
	products := cat.ListByCategory(category)
	if len(products) == 0 {
		return fmt.Errorf("no products in category %q", category)
	}

	fmt.Fprintln(w, "Products:")
	for _, p := range products {
		fmt.Fprintf(w, "  %3d  %-24s %8s  %s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Category)
	}

	methods := memory.NewPaymentMethodRegistry()
	fmt.Fprintln(w, "Payment methods:")
	for _, m := range append(methods.ListStandardMethods(), methods.ListOptionalMethods()...) {
		fmt.Fprintf(w, "  %-10s %-24s %s\n", m.ID, m.Name, m.Group)
	}

	fmt.Fprintln(w, "Registers:")
	for _, r := range memory.NewRegisterRegistry().ListRegisters() {
		fmt.Fprintf(w, "  %3d  %-10s %10s\n", r.ID, r.Name, r.OpeningBalance.StringFixed(2))
	}
	return nil
}
