package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StackLoad/internal/model"
)

func (c *CLI) classifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "classify <width> <height> <depth>",
		Short:   "Print the volume and weight category of a box (meters)",
		Example: "  stackload classify 0.3 0.2 0.3",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dims [3]float64
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid dimension %q: %w", a, err)
				}
				dims[i] = v
			}
			item, err := model.NewItem("box", dims[0], dims[1], dims[2])
			if err != nil {
				return err
			}
			printKeyValue(c.Out, "Volume", fmt.Sprintf("%.4f m³", item.Volume))
			printKeyValue(c.Out, "Category", renderCategory(item.Category))
			return nil
		},
	}
}
