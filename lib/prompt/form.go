// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// fieldKind selects the editor behavior for a single form field.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldNumber
	fieldInteger
	fieldBoolean
	fieldEnum
	fieldJSON
)

// formField holds the state of one schema property in the form.
type formField struct {
	name        string
	kind        fieldKind
	description string
	required    bool

	// input is the text buffer for fieldText, fieldNumber,
	// fieldInteger, and fieldJSON.
	input string

	// boolValue is the current fieldBoolean toggle state.
	boolValue bool

	// Enum state. enumIndex is -1 while nothing is selected.
	enumChoices []string
	enumValues  []any
	enumIndex   int

	// problem is the validation message from the last accept
	// attempt. Editing the field clears it.
	problem string
}

// editsText reports whether the field consumes typed characters.
func (field *formField) editsText() bool {
	switch field.kind {
	case fieldText, fieldNumber, fieldInteger, fieldJSON:
		return true
	}
	return false
}

// insert appends typed text to the field's buffer.
func (field *formField) insert(text string) {
	field.input += text
	field.problem = ""
}

// backspace removes the last rune from the field's buffer.
func (field *formField) backspace() {
	field.problem = ""
	if len(field.input) == 0 {
		return
	}
	runes := []rune(field.input)
	field.input = string(runes[:len(runes)-1])
}

// cycle moves the enum selection by direction (+1 or -1). Optional
// fields cycle through an extra blank position so a selection can be
// cleared; required fields wrap directly between the first and last
// choice.
func (field *formField) cycle(direction int) {
	field.problem = ""
	count := len(field.enumChoices)
	if count == 0 {
		return
	}
	next := field.enumIndex + direction
	switch {
	case next >= count:
		if field.required {
			next = 0
		} else {
			next = -1
		}
	case next < -1:
		next = count - 1
	case next == -1 && field.required:
		next = count - 1
	}
	field.enumIndex = next
}

// validate checks the field's current value and records a problem
// message when it does not hold. Empty optional fields hold.
func (field *formField) validate() bool {
	field.problem = ""
	switch field.kind {
	case fieldText:
		if field.required && field.input == "" {
			field.problem = "required"
		}
	case fieldNumber:
		if field.input == "" {
			if field.required {
				field.problem = "required"
			}
		} else if _, err := strconv.ParseFloat(field.input, 64); err != nil {
			field.problem = "not a number"
		}
	case fieldInteger:
		if field.input == "" {
			if field.required {
				field.problem = "required"
			}
		} else if _, err := strconv.ParseInt(field.input, 10, 64); err != nil {
			field.problem = "not an integer"
		}
	case fieldBoolean:
		// A toggle always holds a value.
	case fieldEnum:
		if field.required && field.enumIndex < 0 {
			field.problem = "required"
		}
	case fieldJSON:
		if field.input == "" {
			if field.required {
				field.problem = "required"
			}
		} else if !json.Valid([]byte(field.input)) {
			field.problem = "not valid JSON"
		}
	}
	return field.problem == ""
}

// value converts the field's state to a payload value. The second
// return is false when the field is empty or does not parse, meaning
// the property should be omitted from the payload.
func (field *formField) value() (any, bool) {
	switch field.kind {
	case fieldText:
		if field.input == "" {
			return nil, false
		}
		return field.input, true
	case fieldNumber:
		number, err := strconv.ParseFloat(field.input, 64)
		if err != nil {
			return nil, false
		}
		return number, true
	case fieldInteger:
		number, err := strconv.ParseInt(field.input, 10, 64)
		if err != nil {
			return nil, false
		}
		return number, true
	case fieldBoolean:
		return field.boolValue, true
	case fieldEnum:
		if field.enumIndex < 0 {
			return nil, false
		}
		return field.enumValues[field.enumIndex], true
	case fieldJSON:
		if field.input == "" {
			return nil, false
		}
		var decoded any
		if err := json.Unmarshal([]byte(field.input), &decoded); err != nil {
			return nil, false
		}
		return decoded, true
	}
	return nil, false
}

// Form is a Bubble Tea model that collects one value per property of
// an object schema. Fields appear in alphabetical order. Enter
// validates the active field and advances; on the last field it
// validates the whole form and submits. Escape cancels.
type Form struct {
	fields    []formField
	active    int
	title     string
	width     int
	keys      KeyMap
	theme     Theme
	submitted bool
	cancelled bool
}

// FormOption customizes a Form at construction.
type FormOption func(*Form)

// WithTheme overrides the default color theme.
func WithTheme(theme Theme) FormOption {
	return func(form *Form) { form.theme = theme }
}

// WithKeyMap overrides the default key bindings.
func WithKeyMap(keys KeyMap) FormOption {
	return func(form *Form) { form.keys = keys }
}

// WithTitle overrides the form title. Without this option the form
// uses the schema's own title, falling back to "Parameters".
func WithTitle(title string) FormOption {
	return func(form *Form) { form.title = title }
}

// NewForm builds a form from an object schema. The schema may be a
// map[string]any or any JSON-marshalable value describing one; it
// must carry at least one property. Property types string, number,
// integer, and boolean get dedicated editors, properties with an enum
// list become a choice cycler, and object or array properties fall
// back to raw JSON entry.
func NewForm(schema any, options ...FormOption) (Form, error) {
	document, err := schemaDocument(schema)
	if err != nil {
		return Form{}, err
	}
	if typeName, ok := document["type"].(string); ok && typeName != "object" {
		return Form{}, fmt.Errorf("prompt: schema describes a %s, expected an object", typeName)
	}
	properties, ok := document["properties"].(map[string]any)
	if !ok || len(properties) == 0 {
		return Form{}, errors.New("prompt: schema has no properties to prompt for")
	}

	required := make(map[string]bool)
	if list, ok := document["required"].([]any); ok {
		for _, entry := range list {
			if name, ok := entry.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	slices.Sort(names)

	form := Form{
		fields: make([]formField, 0, len(names)),
		title:  "Parameters",
		width:  80,
		keys:   DefaultKeyMap(),
		theme:  DefaultTheme(),
	}
	if title, ok := document["title"].(string); ok && title != "" {
		form.title = title
	}
	for _, name := range names {
		property, _ := properties[name].(map[string]any)
		form.fields = append(form.fields, newField(name, property, required[name]))
	}
	for _, option := range options {
		option(&form)
	}
	return form, nil
}

// schemaDocument canonicalizes the schema through a JSON round trip
// so numbers, lists, and nested objects arrive in their encoding/json
// shapes regardless of how the caller built the value.
func schemaDocument(schema any) (map[string]any, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("prompt: schema is not JSON-shaped: %w", err)
	}
	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("prompt: schema is not a JSON object: %w", err)
	}
	return document, nil
}

// newField builds the editor state for one property.
func newField(name string, property map[string]any, required bool) formField {
	field := formField{name: name, required: required, enumIndex: -1}
	if description, ok := property["description"].(string); ok {
		field.description = description
	}
	if choices, ok := property["enum"].([]any); ok && len(choices) > 0 {
		field.kind = fieldEnum
		field.enumValues = choices
		field.enumChoices = make([]string, len(choices))
		for i, choice := range choices {
			field.enumChoices[i] = enumLabel(choice)
		}
	} else {
		typeName, _ := property["type"].(string)
		switch typeName {
		case "number":
			field.kind = fieldNumber
		case "integer":
			field.kind = fieldInteger
		case "boolean":
			field.kind = fieldBoolean
		case "object", "array":
			field.kind = fieldJSON
		default:
			field.kind = fieldText
		}
	}
	applyDefault(&field, property["default"])
	return field
}

// enumLabel renders an enum value for display.
func enumLabel(value any) string {
	if text, ok := value.(string); ok {
		return text
	}
	return fmt.Sprintf("%v", value)
}

// applyDefault preloads the field with the property's default value
// so the user sees it and can edit it in place.
func applyDefault(field *formField, value any) {
	if value == nil {
		return
	}
	switch field.kind {
	case fieldText:
		if text, ok := value.(string); ok {
			field.input = text
		}
	case fieldNumber:
		if number, ok := value.(float64); ok {
			field.input = strconv.FormatFloat(number, 'g', -1, 64)
		}
	case fieldInteger:
		if number, ok := value.(float64); ok {
			field.input = strconv.FormatInt(int64(number), 10)
		}
	case fieldBoolean:
		if flag, ok := value.(bool); ok {
			field.boolValue = flag
		}
	case fieldEnum:
		for i, candidate := range field.enumValues {
			if reflect.DeepEqual(candidate, value) {
				field.enumIndex = i
				break
			}
		}
	case fieldJSON:
		if encoded, err := json.Marshal(value); err == nil {
			field.input = string(encoded)
		}
	}
}

// Init implements tea.Model.
func (form Form) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (form Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		form.width = msg.Width
		return form, nil
	case tea.KeyMsg:
		return form.handleKey(msg)
	}
	return form, nil
}

func (form Form) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, form.keys.Cancel) {
		form.cancelled = true
		return form, tea.Quit
	}

	field := &form.fields[form.active]

	// Text entry consumes runes, space, and backspace before the
	// navigation bindings see them.
	if field.editsText() {
		switch msg.Type {
		case tea.KeyRunes:
			if !msg.Alt {
				field.insert(string(msg.Runes))
				return form, nil
			}
		case tea.KeySpace:
			field.insert(" ")
			return form, nil
		case tea.KeyBackspace:
			field.backspace()
			return form, nil
		}
	}

	switch {
	case key.Matches(msg, form.keys.Accept):
		return form.accept()
	case key.Matches(msg, form.keys.Next):
		form.move(1)
	case key.Matches(msg, form.keys.Prev):
		form.move(-1)
	case key.Matches(msg, form.keys.Toggle):
		if field.kind == fieldBoolean {
			field.boolValue = !field.boolValue
			field.problem = ""
		}
	case key.Matches(msg, form.keys.CycleNext):
		if field.kind == fieldEnum {
			field.cycle(1)
		}
	case key.Matches(msg, form.keys.CyclePrev):
		if field.kind == fieldEnum {
			field.cycle(-1)
		}
	}
	return form, nil
}

// accept validates the active field and advances. On the last field
// it validates every field; the first failure grabs focus, otherwise
// the form submits and quits the program.
func (form Form) accept() (tea.Model, tea.Cmd) {
	if !form.fields[form.active].validate() {
		return form, nil
	}
	if form.active < len(form.fields)-1 {
		form.active++
		return form, nil
	}
	for i := range form.fields {
		if !form.fields[i].validate() {
			form.active = i
			return form, nil
		}
	}
	form.submitted = true
	return form, tea.Quit
}

// move shifts focus by step, wrapping at both ends.
func (form *Form) move(step int) {
	count := len(form.fields)
	form.active = (form.active + step + count) % count
}

// Submitted reports whether the form completed with valid values.
func (form Form) Submitted() bool {
	return form.submitted
}

// Cancelled reports whether the user aborted the form.
func (form Form) Cancelled() bool {
	return form.cancelled
}

// Values returns the collected payload. Empty optional fields are
// omitted; numbers come back as float64, integers as int64.
func (form Form) Values() map[string]any {
	values := make(map[string]any)
	for i := range form.fields {
		if value, ok := form.fields[i].value(); ok {
			values[form.fields[i].name] = value
		}
	}
	return values
}

// View implements tea.Model.
func (form Form) View() string {
	var view strings.Builder
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(form.theme.HeaderForeground)
	view.WriteString(titleStyle.Render(form.title))
	view.WriteString("\n\n")
	for i := range form.fields {
		view.WriteString(form.renderField(i))
	}
	view.WriteString("\n")
	view.WriteString(form.renderHelp())
	view.WriteString("\n")
	return view.String()
}

// renderField renders one field line, plus the description when the
// field is active and the validation problem when one is recorded.
func (form Form) renderField(index int) string {
	field := form.fields[index]
	active := index == form.active && !form.submitted && !form.cancelled

	nameStyle := lipgloss.NewStyle().Foreground(form.theme.NormalText)
	marker := "  "
	if active {
		marker = lipgloss.NewStyle().
			Foreground(form.theme.Accent).
			Render("> ")
		nameStyle = nameStyle.Bold(true)
	}

	var line strings.Builder
	line.WriteString(marker)
	line.WriteString(nameStyle.Render(field.name))
	if field.required {
		line.WriteString(lipgloss.NewStyle().
			Foreground(form.theme.Accent).
			Render("*"))
	}
	line.WriteString(": ")
	line.WriteString(form.renderValue(field, active))
	line.WriteString("\n")

	if active && field.description != "" {
		faint := lipgloss.NewStyle().Foreground(form.theme.FaintText)
		line.WriteString("    " + faint.Render(truncateToWidth(field.description, form.width-6)) + "\n")
	}
	if field.problem != "" {
		errorStyle := lipgloss.NewStyle().Foreground(form.theme.ErrorText)
		line.WriteString("    " + errorStyle.Render(field.problem) + "\n")
	}
	return line.String()
}

// renderValue renders the field's current value. The active text
// field gets a cursor; the active enum gets cycle arrows.
func (form Form) renderValue(field formField, active bool) string {
	switch field.kind {
	case fieldBoolean:
		if field.boolValue {
			return "[x]"
		}
		return "[ ]"
	case fieldEnum:
		label := "(none)"
		style := lipgloss.NewStyle().Foreground(form.theme.FaintText)
		if field.enumIndex >= 0 {
			label = field.enumChoices[field.enumIndex]
			style = lipgloss.NewStyle().Foreground(form.theme.NormalText)
		}
		if active {
			return style.Render("< " + label + " >")
		}
		return style.Render(label)
	default:
		if active {
			cursor := lipgloss.NewStyle().
				Foreground(form.theme.HeaderForeground).
				Bold(true).
				Render("▎")
			return field.input + cursor
		}
		return field.input
	}
}

// renderHelp renders the bottom help bar with key hints.
func (form Form) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(form.theme.HelpText)
	return style.Render(" enter accept  tab/shift+tab move  space toggle  ←/→ cycle  esc cancel")
}

// truncateToWidth clips text to the given display width, appending an
// ellipsis when something was cut.
func truncateToWidth(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width-1, "") + "…"
}
