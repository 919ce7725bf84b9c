package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ziadkadry99/docdeck/internal/content"
	"github.com/ziadkadry99/docdeck/internal/slides"
)

var slidesWidth int

var slidesCmd = &cobra.Command{
	Use:   "slides FILE",
	Short: "Print the slides a Markdown page segments into",
	Long: `Segments a single Markdown file the way the deck does and prints each
slide's text, wrapped to the terminal width. Useful for checking where
section headings split a page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		article, err := content.FromMarkdown(src)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		deck := slides.Segment(article.Nodes())
		if len(deck) == 0 {
			return errors.New("nothing to present")
		}
		return printSlides(cmd.OutOrStdout(), deck, outputWidth())
	},
}

func init() {
	slidesCmd.Flags().IntVar(&slidesWidth, "width", 0, "wrap width (defaults to the terminal width)")
	rootCmd.AddCommand(slidesCmd)
}

// outputWidth is --width, the terminal width, or 80.
func outputWidth() int {
	if slidesWidth > 0 {
		return slidesWidth
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

func printSlides(w io.Writer, deck []slides.Slide, width int) error {
	const pad = 4
	body := width - pad
	if body < 20 {
		body = 20
	}
	for i, s := range deck {
		title := s.Title()
		if title == "" {
			title = "(untitled)"
		}
		if _, err := fmt.Fprintf(w, "%d / %d  %s\n", i+1, len(deck), title); err != nil {
			return err
		}
		text := s.Text()
		if len(text) > 0 && s.Title() != "" {
			text = text[1:]
		}
		for _, block := range text {
			wrapped := wordwrap.String(block, body)
			fmt.Fprintln(w, indent.String(wrapped, pad))
		}
		if i < len(deck)-1 {
			fmt.Fprintln(w, strings.Repeat("─", min(width, 40)))
		}
	}
	return nil
}
