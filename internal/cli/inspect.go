package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/shapes/hexagon"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// inspectCommand creates the interactive page browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var workspace, pageID string
	var list bool

	cmd := &cobra.Command{
		Use:   "inspect [page.json]",
		Short: "Browse the shapes of a page",
		Long: `Browse the shapes of a page in an interactive table.

The page is read from a file, or from the block store when --workspace and
--page are given. --list prints the table once without interaction.`,
		Example: `  hexboard inspect board.json
  hexboard inspect --workspace team --page page:1 --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.loadInspectPage(cmd.Context(), args, workspace, pageID)
			if err != nil {
				return err
			}
			m := NewShapeListModel(page, hexagon.NewRenderer())
			if list {
				m.Height = len(m.Shapes)
				fmt.Fprintln(c.out, m.View())
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace id (read from the block store)")
	cmd.Flags().StringVarP(&pageID, "page", "p", "", "root page block id (read from the block store)")
	cmd.Flags().BoolVar(&list, "list", false, "print the table and exit")

	return cmd
}

func (c *CLI) loadInspectPage(ctx context.Context, args []string, workspace, pageID string) (*board.Page, error) {
	if len(args) == 1 {
		return readPage(args[0])
	}
	if workspace == "" || pageID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "give a page file, or --workspace and --page")
	}
	store, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return board.NewSyncer(store, c.Logger).LoadPage(ctx, workspace, pageID)
}

// shapeDetail is the precomputed geometry shown for the selected shape.
type shapeDetail struct {
	centroid     geom.Point
	outlinePts   int
	pathBytes    int
	indicatorLen int
	err          error
}

// ShapeListModel is the bubbletea model for browsing the shapes of a page.
type ShapeListModel struct {
	PageID  string
	Shapes  []*board.Shape
	Cursor  int
	Height  int
	Offset  int
	details []shapeDetail
}

// NewShapeListModel creates a shape list for page. Hexagon geometry is
// computed up front with r.
func NewShapeListModel(page *board.Page, r *hexagon.Renderer) ShapeListModel {
	shapes := page.SortedShapes()
	m := ShapeListModel{
		PageID:  page.ID,
		Shapes:  shapes,
		Height:  15,
		details: make([]shapeDetail, len(shapes)),
	}
	for i, s := range shapes {
		if s.Type != board.ShapeHexagon {
			continue
		}
		d := &m.details[i]
		d.centroid = s.Point.Add(hexagon.Centroid(s.Size))
		outline, err := r.Outline(s.ID, s.Size, s.Style)
		if err != nil {
			d.err = err
			continue
		}
		d.outlinePts = len(outline)
		if path, err := r.Path(s.ID, s.Size, s.Style); err == nil {
			d.pathBytes = len(path)
		}
		if ind, err := r.IndicatorPath(s.ID, s.Size, s.Style); err == nil {
			d.indicatorLen = len(ind)
		}
	}
	return m
}

func (m ShapeListModel) Init() tea.Cmd {
	return nil
}

func (m ShapeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Shapes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Shapes)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m ShapeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Page " + m.PageID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Shapes) == 0 {
		b.WriteString(listDimStyle.Render("  (no shapes)"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Shapes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Shapes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		color := string(s.Style.Color)
		if color == "" {
			color = "—"
		}
		rows = append(rows, []string{
			cursor,
			s.ID,
			string(s.Type),
			fmt.Sprintf("%.0f×%.0f", s.Size.W, s.Size.H),
			color,
			s.Label,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Shape", "Type", "Size", "Color", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Shapes) {
				return lipgloss.NewStyle()
			}
			isHex := m.Shapes[idx].Type == board.ShapeHexagon
			base := lipgloss.NewStyle()
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			if isHex {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Shapes))))
	return b.String()
}

func (m ShapeListModel) detailView() string {
	s := m.Shapes[m.Cursor]
	if s.Type != board.ShapeHexagon {
		return listDimStyle.Render(fmt.Sprintf("  %s: no geometry for %s shapes", s.ID, s.Type))
	}
	d := m.details[m.Cursor]
	if d.err != nil {
		return StyleWarning.Render(fmt.Sprintf("  %s: %s", s.ID, errors.UserMessage(d.err)))
	}
	return fmt.Sprintf("  %s %s  %s %s  %s %s  %s %s",
		listDimStyle.Render("centroid"), StyleValue.Render(fmt.Sprintf("%.2f, %.2f", d.centroid.X, d.centroid.Y)),
		listDimStyle.Render("outline"), StyleValue.Render(fmt.Sprintf("%d pts", d.outlinePts)),
		listDimStyle.Render("path"), StyleValue.Render(fmt.Sprintf("%d B", d.pathBytes)),
		listDimStyle.Render("indicator"), StyleValue.Render(fmt.Sprintf("%d B", d.indicatorLen)))
}
