package script

import (
	"fmt"
	"strings"
	"time"
)

// Property is one backend property assignment with the value already
// rendered as a JavaScript literal. Use the constructors below.
type Property struct {
	Name    string
	Literal string
}

// StringProp renders a string-valued property.
func StringProp(name, value string) Property {
	return Property{Name: name, Literal: jsString(value)}
}

// BoolProp renders a boolean-valued property.
func BoolProp(name string, value bool) Property {
	return Property{Name: name, Literal: fmt.Sprintf("%t", value)}
}

// IntProp renders an integer-valued property.
func IntProp(name string, value int) Property {
	return Property{Name: name, Literal: fmt.Sprintf("%d", value)}
}

// DateProp renders a date-valued property; a nil time clears the field.
func DateProp(name string, value *time.Time) Property {
	if value == nil {
		return Property{Name: name, Literal: "null"}
	}
	return Property{Name: name, Literal: jsDate(*value)}
}

// ReviewIntervalProp renders a weekly review interval as the backend's
// interval object, matching the shape the read projection decodes.
func ReviewIntervalProp(weeks int) Property {
	return Property{Name: "reviewInterval", Literal: fmt.Sprintf(`{ unit: "week", steps: %d, fixed: true }`, weeks)}
}

// NullProp clears a property.
func NullProp(name string) Property {
	return Property{Name: name, Literal: "null"}
}

func renderProps(target string, props []Property) string {
	var b strings.Builder
	for _, p := range props {
		fmt.Fprintf(&b, "%s.%s = %s;\n", target, p.Name, p.Literal)
	}
	return b.String()
}

func lookupTask(id string) string {
	return "const task = doc.flattenedTasks.byId(" + jsString(id) + ");\n" +
		"if (!task) { throw new Error('task not found: ' + " + jsString(id) + "); }\n"
}

func lookupProject(id string) string {
	return "const proj = doc.flattenedProjects.byId(" + jsString(id) + ");\n" +
		"if (!proj) { throw new Error('project not found: ' + " + jsString(id) + "); }\n"
}

// CreateTask creates a task in the inbox, a project, or under a parent
// task, applies initial properties and tags, and prints the new id.
type CreateTask struct {
	Name       string
	ProjectID  string // target project; mutually exclusive with ParentTaskID
	ParentID   string // target parent task
	Props      []Property
	Tags       []string
	Recurrence string // iCalendar rule; empty = none
	Method     string // backend-native repetition method label
}

func (c CreateTask) Render() string {
	var b strings.Builder
	switch {
	case c.ParentID != "":
		b.WriteString("const parent = doc.flattenedTasks.byId(" + jsString(c.ParentID) + ");\n")
		b.WriteString("if (!parent) { throw new Error('task not found: ' + " + jsString(c.ParentID) + "); }\n")
		b.WriteString("const task = app.Task({ name: " + jsString(c.Name) + " });\n")
		b.WriteString("parent.tasks.push(task);\n")
	case c.ProjectID != "":
		b.WriteString(lookupProject(c.ProjectID))
		b.WriteString("const task = app.Task({ name: " + jsString(c.Name) + " });\n")
		b.WriteString("proj.tasks.push(task);\n")
	default:
		b.WriteString("const task = app.InboxTask({ name: " + jsString(c.Name) + " });\n")
		b.WriteString("doc.inboxTasks.push(task);\n")
	}
	b.WriteString(renderProps("task", c.Props))
	for _, tag := range c.Tags {
		b.WriteString("app.add(ensureTag(" + jsString(tag) + "), { to: task.tags });\n")
	}
	if c.Recurrence != "" {
		b.WriteString("task.repetitionRule = app.RepetitionRule({ recurrence: " + jsString(c.Recurrence) +
			", repetitionMethod: " + jsString(c.Method) + " });\n")
	}
	b.WriteString("console.log(task.id());")
	body := b.String()
	if len(c.Tags) > 0 {
		body = ensureTagFn + "\n" + body
	}
	return wrap(body)
}

const ensureTagFn = `function ensureTag(name) {
  const existing = doc.flattenedTags().filter((g) => g.name().toLowerCase() === name.toLowerCase());
  if (existing.length > 0) { return existing[0]; }
  const tag = app.Tag({ name: name });
  doc.tags.push(tag);
  return tag;
}`

// SetTaskProperties applies a batch of property assignments to one task.
type SetTaskProperties struct {
	ID    string
	Props []Property
}

func (c SetTaskProperties) Render() string {
	body := lookupTask(c.ID) + renderProps("task", c.Props) + "console.log('true');"
	return wrap(body)
}

// SetTaskRecurrence sets or clears a task's repetition rule.
type SetTaskRecurrence struct {
	ID         string
	Recurrence string // empty clears
	Method     string // backend-native label
}

func (c SetTaskRecurrence) Render() string {
	var assign string
	if c.Recurrence == "" {
		assign = "task.repetitionRule = null;\n"
	} else {
		assign = "task.repetitionRule = app.RepetitionRule({ recurrence: " + jsString(c.Recurrence) +
			", repetitionMethod: " + jsString(c.Method) + " });\n"
	}
	return wrap(lookupTask(c.ID) + assign + "console.log('true');")
}

// MoveTask reparents a task into a project, under another task, or back to
// the inbox.
type MoveTask struct {
	ID        string
	ProjectID string
	ParentID  string
	ToInbox   bool
}

func (c MoveTask) Render() string {
	var b strings.Builder
	b.WriteString(lookupTask(c.ID))
	switch {
	case c.ParentID != "":
		b.WriteString("const parent = doc.flattenedTasks.byId(" + jsString(c.ParentID) + ");\n")
		b.WriteString("if (!parent) { throw new Error('task not found: ' + " + jsString(c.ParentID) + "); }\n")
		b.WriteString("app.move(task, { to: parent.tasks });\n")
	case c.ProjectID != "":
		b.WriteString(lookupProject(c.ProjectID))
		b.WriteString("app.move(task, { to: proj.tasks });\n")
	case c.ToInbox:
		b.WriteString("app.move(task, { to: doc.inboxTasks });\n")
	}
	b.WriteString("console.log('true');")
	return wrap(b.String())
}

// SetTaskTags replaces, adds to, or removes from a task's tag set. Replace
// and the incremental lists are mutually exclusive upstream.
type SetTaskTags struct {
	ID      string
	Replace []string // non-nil: full replacement, empty slice clears all
	Add     []string
	Remove  []string
}

func (c SetTaskTags) Render() string {
	var b strings.Builder
	b.WriteString(ensureTagFn + "\n")
	b.WriteString(lookupTask(c.ID))
	if c.Replace != nil {
		b.WriteString("task.tags().forEach((g) => app.remove(g, { from: task.tags }));\n")
		for _, tag := range c.Replace {
			b.WriteString("app.add(ensureTag(" + jsString(tag) + "), { to: task.tags });\n")
		}
	}
	for _, tag := range c.Add {
		b.WriteString("app.add(ensureTag(" + jsString(tag) + "), { to: task.tags });\n")
	}
	if len(c.Remove) > 0 {
		b.WriteString("const drop = " + jsStringArray(c.Remove) + ".map((n) => n.toLowerCase());\n")
		b.WriteString("task.tags().filter((g) => drop.includes(g.name().toLowerCase())).forEach((g) => app.remove(g, { from: task.tags }));\n")
	}
	b.WriteString("console.log('true');")
	return wrap(b.String())
}

// CompleteTask marks a task complete.
type CompleteTask struct {
	ID string
}

func (c CompleteTask) Render() string {
	return wrap(lookupTask(c.ID) + "task.markComplete();\nconsole.log('true');")
}

// DropTask marks a task dropped.
type DropTask struct {
	ID string
}

func (c DropTask) Render() string {
	return wrap(lookupTask(c.ID) + "task.markDropped();\nconsole.log('true');")
}

// ReopenTask marks a completed or dropped task incomplete again.
type ReopenTask struct {
	ID string
}

func (c ReopenTask) Render() string {
	return wrap(lookupTask(c.ID) + "task.markIncomplete();\nconsole.log('true');")
}

// DeleteTask permanently removes a task.
type DeleteTask struct {
	ID string
}

func (c DeleteTask) Render() string {
	return wrap(lookupTask(c.ID) + "app.delete(task);\nconsole.log('true');")
}

// CreateProject creates a project, optionally inside a folder path
// (folders are created as needed), and prints the new id.
type CreateProject struct {
	Name       string
	FolderPath []string
	Props      []Property
}

func (c CreateProject) Render() string {
	var b strings.Builder
	if len(c.FolderPath) > 0 {
		b.WriteString("let container = doc;\n")
		b.WriteString("for (const name of " + jsStringArray(c.FolderPath) + ") {\n")
		b.WriteString("  const found = container.folders().filter((f) => f.name() === name);\n")
		b.WriteString("  if (found.length > 0) { container = found[0]; continue; }\n")
		b.WriteString("  const folder = app.Folder({ name: name });\n")
		b.WriteString("  container.folders.push(folder);\n")
		b.WriteString("  container = folder;\n")
		b.WriteString("}\n")
		b.WriteString("const proj = app.Project({ name: " + jsString(c.Name) + " });\n")
		b.WriteString("container.projects.push(proj);\n")
	} else {
		b.WriteString("const proj = app.Project({ name: " + jsString(c.Name) + " });\n")
		b.WriteString("doc.projects.push(proj);\n")
	}
	b.WriteString(renderProps("proj", c.Props))
	b.WriteString("console.log(proj.id());")
	return wrap(b.String())
}

// SetProjectProperties applies a batch of property assignments to one
// project.
type SetProjectProperties struct {
	ID    string
	Props []Property
}

func (c SetProjectProperties) Render() string {
	return wrap(lookupProject(c.ID) + renderProps("proj", c.Props) + "console.log('true');")
}

// DeleteProject permanently removes a project and its tasks.
type DeleteProject struct {
	ID string
}

func (c DeleteProject) Render() string {
	return wrap(lookupProject(c.ID) + "app.delete(proj);\nconsole.log('true');")
}

// CreateTag creates a tag if it does not already exist and prints its id.
type CreateTag struct {
	Name string
}

func (c CreateTag) Render() string {
	return wrap(ensureTagFn + "\nconsole.log(ensureTag(" + jsString(c.Name) + ").id());")
}
