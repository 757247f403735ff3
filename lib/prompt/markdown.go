// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// The parser configuration never changes and a goldmark parser is
// safe to share, so one instance serves every render.
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func markdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// RenderMarkdown renders instruction markdown as ANSI-styled terminal
// text wrapped to width. Soft line breaks inside paragraphs become
// spaces so hard-wrapped source reflows at any width. Headings,
// emphasis, lists, block quotes, tables, and links keep their
// structure; fenced code blocks are syntax-highlighted when the fence
// names a language chroma knows.
func RenderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	// Instructions always target a terminal, so force the ANSI256
	// profile instead of auto-detecting. Detection strips all color
	// when stdout is not a TTY, which includes every test run.
	styler := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	styler.SetColorProfile(termenv.ANSI256)

	writer := &markdownWriter{
		source: source,
		theme:  theme,
		width:  width,
		styler: styler,
		// Start at a blank boundary so a document that opens with a
		// heading or code block gets no leading blank lines.
		blankRun: 2,
	}
	ast.Walk(document, writer.walk)

	return strings.TrimRight(writer.out.String(), "\n")
}

// markdownWriter walks a goldmark AST and accumulates styled terminal
// text. Inline content collects in a buffer and is word-wrapped as a
// unit when its containing block closes, which is why this is a
// direct ast.Walk rather than a goldmark renderer: streaming
// callbacks cannot wrap a paragraph they have not finished seeing.
type markdownWriter struct {
	source []byte
	theme  Theme
	width  int
	styler *lipgloss.Renderer

	out    strings.Builder
	inline strings.Builder

	// indents stacks continuation prefixes for nested blocks. bullet,
	// when set, replaces the whole prefix on the next emitted line so
	// list markers land on the first line of their item only.
	indents []string
	bullet  string

	// Style counters rather than booleans so nested emphasis nests.
	bold   int
	italic int
	struck int

	lists []listLevel

	// blankRun counts the newlines at the end of out.
	blankRun int
}

type listLevel struct {
	ordered bool
	number  int
	tight   bool
}

func (writer *markdownWriter) style() lipgloss.Style {
	return writer.styler.NewStyle()
}

func (writer *markdownWriter) prefix() string {
	return strings.Join(writer.indents, "")
}

// contentWidth is the wrap width left after nesting prefixes, floored
// so deep nesting cannot degenerate into one-word lines.
func (writer *markdownWriter) contentWidth() int {
	width := writer.width - ansi.StringWidth(writer.prefix())
	if width < 10 {
		width = 10
	}
	return width
}

func (writer *markdownWriter) pushIndent(indent string) {
	writer.indents = append(writer.indents, indent)
}

func (writer *markdownWriter) popIndent() {
	if len(writer.indents) > 0 {
		writer.indents = writer.indents[:len(writer.indents)-1]
	}
}

// emit appends text to the output, keeping the trailing newline count
// current for breakLine and blankLine.
func (writer *markdownWriter) emit(chunk string) {
	if chunk == "" {
		return
	}
	writer.out.WriteString(chunk)

	trailing := 0
	for index := len(chunk) - 1; index >= 0 && chunk[index] == '\n'; index-- {
		trailing++
	}
	if trailing == len(chunk) {
		writer.blankRun += trailing
	} else {
		writer.blankRun = trailing
	}
}

// breakLine guarantees the output ends with a newline.
func (writer *markdownWriter) breakLine() {
	if writer.blankRun < 1 {
		writer.emit("\n")
	}
}

// blankLine guarantees the output ends with an empty line.
func (writer *markdownWriter) blankLine() {
	for writer.blankRun < 2 {
		writer.emit("\n")
	}
}

// takePrefix returns the prefix for the next emitted line: the
// pending list bullet if one is armed, the indent stack otherwise.
func (writer *markdownWriter) takePrefix() string {
	if writer.bullet != "" {
		bullet := writer.bullet
		writer.bullet = ""
		return bullet
	}
	return writer.prefix()
}

// prefixLines prepends line prefixes to every line of content. The
// first line may consume a pending bullet.
func (writer *markdownWriter) prefixLines(content string) string {
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if index == 0 {
			lines[index] = writer.takePrefix() + line
		} else {
			lines[index] = writer.prefix() + line
		}
	}
	return strings.Join(lines, "\n")
}

// flushInline wraps and prefixes the accumulated inline content,
// clearing the buffer.
func (writer *markdownWriter) flushInline() string {
	content := writer.inline.String()
	writer.inline.Reset()
	if content == "" {
		return ""
	}
	return writer.prefixLines(ansi.Wrap(content, writer.contentWidth(), "-"))
}

// styled applies the active emphasis state to plain text.
func (writer *markdownWriter) styled(content string) string {
	style := writer.style().Foreground(writer.theme.NormalText)
	if writer.bold > 0 {
		style = style.Bold(true)
	}
	if writer.italic > 0 {
		style = style.Italic(true)
	}
	if writer.struck > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// collectInline renders a node's children into a standalone string,
// saving and restoring the inline buffer and emphasis state so the
// surrounding accumulation is untouched. Used for link text, image
// alt text, and table cells.
func (writer *markdownWriter) collectInline(node ast.Node) string {
	savedInline := writer.inline.String()
	savedBold, savedItalic, savedStruck := writer.bold, writer.italic, writer.struck

	writer.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, writer.walk)
	}
	collected := writer.inline.String()

	writer.inline.Reset()
	writer.inline.WriteString(savedInline)
	writer.bold, writer.italic, writer.struck = savedBold, savedItalic, savedStruck
	return collected
}

// highlight syntax-highlights code for the terminal, falling back to
// faint plain text when the language is missing or unknown.
func (writer *markdownWriter) highlight(code, language string) string {
	if language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, code, language, "terminal256", "monokai"); err == nil {
			return highlighted.String()
		}
	}
	return writer.style().Foreground(writer.theme.FaintText).Render(code)
}

func (writer *markdownWriter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	case ast.KindDocument:
		// Nothing to do at either boundary.

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			writer.inline.Reset()
		} else if flushed := writer.flushInline(); flushed != "" {
			writer.emit(flushed)
			writer.breakLine()
			if !writer.inTightList() {
				writer.blankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			writer.inline.Reset()
		} else {
			writer.leaveHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			writer.emitCode(blockText(block, writer.source), string(block.Language(writer.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			writer.emitCode(blockText(node, writer.source), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			writer.pushIndent("│ ")
		} else {
			writer.popIndent()
			writer.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			start := 0
			if list.IsOrdered() {
				start = list.Start
			}
			writer.lists = append(writer.lists, listLevel{
				ordered: list.IsOrdered(),
				number:  start,
				tight:   list.IsTight,
			})
		} else {
			if len(writer.lists) > 0 {
				writer.lists = writer.lists[:len(writer.lists)-1]
			}
			if !writer.inTightList() {
				writer.blankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			writer.enterListItem()
		} else {
			writer.popIndent()
			if writer.inTightList() {
				writer.breakLine()
			} else {
				writer.blankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := writer.style().
				Foreground(writer.theme.BorderColor).
				Render(strings.Repeat("─", writer.contentWidth()))
			writer.blankLine()
			writer.emit(writer.prefixLines(rule))
			writer.breakLine()
			writer.blankLine()
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			writer.inline.WriteString(writer.styled(string(textNode.Segment.Value(writer.source))))
			if textNode.SoftLineBreak() {
				// Soft breaks become spaces so source wrapped at one
				// width reflows cleanly at another.
				writer.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				writer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			writer.inline.WriteString(writer.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		writer.handleEmphasis(node.(*ast.Emphasis), entering)

	case ast.KindCodeSpan:
		if entering {
			writer.renderCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			writer.renderLink(node.(*ast.Link))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(writer.source))
			writer.inline.WriteString(writer.style().Foreground(writer.theme.Accent).Render(url))
		}

	case ast.KindImage:
		if entering {
			writer.renderImage(node.(*ast.Image))
			return ast.WalkSkipChildren, nil
		}

	case extast.KindStrikethrough:
		if entering {
			writer.struck++
		} else {
			writer.struck--
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				writer.inline.WriteString(writer.styled("[x] "))
			} else {
				writer.inline.WriteString(writer.styled("[ ] "))
			}
		}

	case extast.KindTable:
		if entering {
			writer.renderTable(node)
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

func (writer *markdownWriter) inTightList() bool {
	if len(writer.lists) == 0 {
		return false
	}
	return writer.lists[len(writer.lists)-1].tight
}

func (writer *markdownWriter) leaveHeading(heading *ast.Heading) {
	// The heading carries its own style, so drop whatever inline
	// styling the children accumulated.
	content := ansi.Strip(writer.inline.String())
	writer.inline.Reset()
	if content == "" {
		return
	}

	style := writer.style().Bold(true)
	switch {
	case heading.Level == 1:
		style = style.Foreground(writer.theme.HeaderForeground).Underline(true)
	case heading.Level == 2:
		style = style.Foreground(writer.theme.HeaderForeground)
	default:
		style = style.Foreground(writer.theme.NormalText)
	}

	wrapped := ansi.Wrap(style.Render(content), writer.contentWidth(), "-")
	writer.blankLine()
	writer.emit(writer.prefixLines(wrapped))
	writer.breakLine()
	writer.blankLine()
}

// blockText concatenates the raw lines of a code block.
func blockText(node ast.Node, source []byte) string {
	var content strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		content.Write(lines.At(index).Value(source))
	}
	return content.String()
}

// emitCode writes a code block line by line so nesting prefixes apply
// to every line. Highlighted lines keep their own ANSI styling.
func (writer *markdownWriter) emitCode(code, language string) {
	rendered := writer.highlight(code, language)
	writer.blankLine()
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		writer.emit(writer.takePrefix() + line)
		writer.breakLine()
	}
	writer.blankLine()
}

func (writer *markdownWriter) enterListItem() {
	if len(writer.lists) == 0 {
		return
	}
	top := &writer.lists[len(writer.lists)-1]

	var marker string
	if top.ordered {
		marker = fmt.Sprintf("%d. ", top.number)
		top.number++
	} else {
		marker = "- "
	}

	// The marker replaces the whole prefix on the item's first line;
	// continuation lines indent by the marker's width.
	writer.bullet = writer.prefix() + marker
	writer.pushIndent(strings.Repeat(" ", len(marker)))
}

func (writer *markdownWriter) handleEmphasis(node *ast.Emphasis, entering bool) {
	step := 1
	if !entering {
		step = -1
	}
	if node.Level >= 2 {
		writer.bold += step
	} else {
		writer.italic += step
	}
}

func (writer *markdownWriter) renderCodeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child := child.(type) {
		case *ast.Text:
			code.Write(child.Segment.Value(writer.source))
		case *ast.String:
			code.Write(child.Value)
		}
	}
	style := writer.style().Foreground(writer.theme.Accent)
	writer.inline.WriteString(style.Render(code.String()))
}

func (writer *markdownWriter) renderLink(node *ast.Link) {
	// collectInline already applied emphasis styling to the link
	// text, so it goes in unmodified.
	writer.inline.WriteString(writer.collectInline(node))
	if url := string(node.Destination); url != "" {
		style := writer.style().Foreground(writer.theme.Accent)
		writer.inline.WriteString(" " + style.Render("("+url+")"))
	}
}

func (writer *markdownWriter) renderImage(node *ast.Image) {
	faint := writer.style().Foreground(writer.theme.FaintText)
	writer.inline.WriteString(faint.Render("[" + ansi.Strip(writer.collectInline(node)) + "]"))
	if url := string(node.Destination); url != "" {
		writer.inline.WriteString(" " + faint.Render("("+url+")"))
	}
}

// renderTable lays a GFM table out with two-space gutters. Column
// widths come from the widest cell; when the table overflows the
// available width every column is capped at an even share and long
// cells are truncated.
func (writer *markdownWriter) renderTable(node ast.Node) {
	var header []string
	var rows [][]string
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case extast.KindTableHeader:
			header = writer.collectRow(child)
		case extast.KindTableRow:
			rows = append(rows, writer.collectRow(child))
		}
	}

	columns := len(header)
	if columns == 0 && len(rows) > 0 {
		columns = len(rows[0])
	}
	if columns == 0 {
		return
	}

	widths := make([]int, columns)
	measure := func(cells []string) {
		for index, cell := range cells {
			if index < columns && lipgloss.Width(cell) > widths[index] {
				widths[index] = lipgloss.Width(cell)
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	const gutter = "  "
	total := len(gutter) * (columns - 1)
	for _, width := range widths {
		total += width
	}
	if available := writer.contentWidth(); total > available {
		share := (available - len(gutter)*(columns-1)) / columns
		if share < 3 {
			share = 3
		}
		for index := range widths {
			if widths[index] > share {
				widths[index] = share
			}
		}
	}

	writer.blankLine()
	if len(header) > 0 {
		bold := writer.style().Bold(true).Foreground(writer.theme.NormalText)
		writer.emit(writer.takePrefix() + writer.formatRow(header, widths, bold))
		writer.breakLine()

		divider := make([]string, columns)
		for index, width := range widths {
			divider[index] = strings.Repeat("─", width)
		}
		border := writer.style().Foreground(writer.theme.BorderColor)
		writer.emit(writer.prefix() + border.Render(strings.Join(divider, gutter)))
		writer.breakLine()
	}
	for _, row := range rows {
		writer.emit(writer.prefix() + writer.formatRow(row, widths, writer.style()))
		writer.breakLine()
	}
	writer.blankLine()
}

func (writer *markdownWriter) collectRow(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if cell.Kind() == extast.KindTableCell {
			cells = append(cells, writer.collectInline(cell))
		}
	}
	return cells
}

func (writer *markdownWriter) formatRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, len(widths))
	for index, width := range widths {
		var cell string
		if index < len(cells) {
			cell = cells[index]
		}
		if lipgloss.Width(cell) > width {
			cell = ansi.Truncate(cell, width, "…")
		}
		if padding := width - lipgloss.Width(cell); padding > 0 {
			cell += strings.Repeat(" ", padding)
		}
		parts[index] = cell
	}
	return style.Render(strings.Join(parts, "  "))
}
