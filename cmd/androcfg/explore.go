package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"androcfg/internal/applog"
	"androcfg/internal/driver"
	"androcfg/internal/ir"
	"androcfg/internal/source"
)

// exploreCommand starts an interactive TUI that steps through the
// resolved Program one basic block at a time, the same stepping-debugger
// shape as the cpu package's model, applied to graph nodes instead of
// memory pages.
var exploreCommand = &cli.Command{
	Name:  "explore",
	Usage: "step through the resolved program graph interactively",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "d", Usage: "decompiled application directory", Required: true},
		&cli.BoolFlag{Name: "v", Usage: "verbose (debug-level) logging"},
	},
	Action: explore,
}

func explore(ctx *cli.Context) error {
	level := applog.LevelWarn
	if ctx.Bool("v") {
		level = applog.LevelDebug
	}
	log := applog.New(level).Named("explore")

	dir := strings.TrimRight(ctx.String("d"), "/")
	store := source.New(dir)
	result, err := driver.Run(store, dir+"/AndroidManifest.xml", log)
	if err != nil {
		return err
	}

	cursor := firstCursor(result.Program)
	if cursor == nil {
		return fmt.Errorf("explore: program has no classes to step through")
	}

	m, err := tea.NewProgram(exploreModel{program: result.Program, cursor: *cursor}).Run()
	if err != nil {
		return err
	}
	if em, ok := m.(exploreModel); ok && em.err != nil {
		fmt.Println("Error:", em.err)
	}
	return nil
}

// cursor identifies one basic block within one method within one class,
// the unit exploreModel steps between.
type cursor struct {
	classIdx  int
	methodIdx int
	blockIdx  int
}

func firstCursor(p *ir.Program) *cursor {
	for ci, c := range p.Classes {
		for mi, m := range c.Methods {
			if len(m.Blocks) > 0 {
				return &cursor{classIdx: ci, methodIdx: mi, blockIdx: 0}
			}
		}
	}
	return nil
}

type exploreModel struct {
	program *ir.Program
	cursor  cursor
	prev    cursor
	err     error
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case " ", "j":
			m.prev = m.cursor
			if next, ok := m.step(); ok {
				m.cursor = next
			}
		}
	}
	return m, nil
}

// step advances to the next block in the current method, falling through
// to the next method, then the next class. Once the last block of the last
// class is reached it reports false and the cursor stays where it is.
func (m exploreModel) step() (cursor, bool) {
	c := m.cursor
	class := m.program.Classes[c.classIdx]
	method := class.Methods[c.methodIdx]

	if c.blockIdx+1 < len(method.Blocks) {
		c.blockIdx++
		return c, true
	}
	for mi := c.methodIdx + 1; mi < len(class.Methods); mi++ {
		if len(class.Methods[mi].Blocks) > 0 {
			return cursor{classIdx: c.classIdx, methodIdx: mi, blockIdx: 0}, true
		}
	}
	for ci := c.classIdx + 1; ci < len(m.program.Classes); ci++ {
		for mi, method := range m.program.Classes[ci].Methods {
			if len(method.Blocks) > 0 {
				return cursor{classIdx: ci, methodIdx: mi, blockIdx: 0}, true
			}
		}
	}
	return c, false
}

func (m exploreModel) currentBlock() (*ir.Class, *ir.Method, *ir.BasicBlock) {
	class := m.program.Classes[m.cursor.classIdx]
	method := class.Methods[m.cursor.methodIdx]
	block := method.Blocks[m.cursor.blockIdx]
	return class, method, block
}

func (m exploreModel) status() string {
	class, method, block := m.currentBlock()
	return fmt.Sprintf(`
class:  %s
method: %s
block:  %d (%d/%d)
parents:  %v
children: %v
`,
		class.FullPath(), method.Name,
		block.ID, m.cursor.blockIdx+1, len(method.Blocks),
		block.ParentBlockIDs, block.ChildBlockIDs,
	)
}

func (m exploreModel) blockBody() string {
	_, _, block := m.currentBlock()
	var lines []string
	for _, instr := range block.Instructions {
		lines = append(lines, fmt.Sprintf("%4d  %s", instr.LineNum, instr.Text))
	}
	return strings.Join(lines, "\n")
}

func (m exploreModel) View() string {
	_, _, block := m.currentBlock()
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.blockBody(),
			m.status(),
		),
		"",
		spew.Sdump(block.Leader()),
	)
}
