package script

import "strings"

// taskProjection serializes one backend task into the flat record shape the
// normalizer consumes. Field names are backend-native.
const taskProjection = `function projectTask(t) {
  const iso = (d) => d ? d.toISOString() : "";
  let proj = null;
  try { proj = t.containingProject(); } catch (e) {}
  let parent = null;
  try { parent = t.parentTask(); } catch (e) {}
  let rule = "";
  let method = "";
  try {
    const rep = t.repetitionRule();
    if (rep) { rule = rep.recurrence(); method = rep.repetitionMethod(); }
  } catch (e) {}
  return {
    id: t.id(),
    name: t.name(),
    note: t.note() || "",
    completed: t.completed(),
    flagged: t.flagged(),
    dropped: t.dropped(),
    blocked: t.blocked(),
    next: t.next(),
    projectId: proj ? proj.id() : "",
    parentId: (parent && proj && parent.id() === proj.rootTask().id()) ? "" : (parent ? parent.id() : ""),
    dueDate: iso(t.dueDate()),
    deferDate: iso(t.deferDate()),
    completionDate: iso(t.completionDate()),
    creationDate: iso(t.creationDate()),
    modificationDate: iso(t.modificationDate()),
    droppedDate: iso(t.droppedDate()),
    estimatedMinutes: t.estimatedMinutes() || 0,
    tags: t.tags().map((g) => g.name()),
    repetitionRule: rule,
    repetitionMethod: method
  };
}`

// projectProjection serializes one backend project, materializing the
// folder path root-first.
const projectProjection = `function projectRecord(p) {
  const iso = (d) => d ? d.toISOString() : "";
  const path = [];
  let container = p.container();
  while (container && container.constructor.name === 'Folder') {
    path.unshift(container.name());
    container = container.container();
  }
  return {
    id: p.id(),
    name: p.name(),
    note: p.note() || "",
    status: p.status(),
    folderPath: path,
    sequential: p.sequential(),
    reviewIntervalWeeks: p.reviewInterval() ? p.reviewInterval().steps : 0,
    lastReviewDate: iso(p.lastReviewDate()),
    nextReviewDate: iso(p.nextReviewDate()),
    creationDate: iso(p.creationDate()),
    modificationDate: iso(p.modificationDate()),
    completionDate: iso(p.completionDate()),
    droppedDate: iso(p.droppedDate())
  };
}`

// ListTasks fetches tasks as flat records. Scope narrows the candidate set
// at the backend; all finer filtering happens in the filter engine.
type ListTasks struct {
	ProjectID        string // restrict to one project's tasks
	InboxOnly        bool   // only tasks with no owning project
	IncludeCompleted bool
	IncludeDropped   bool
}

func (q ListTasks) Render() string {
	var b strings.Builder
	b.WriteString(taskProjection + "\n")
	switch {
	case q.InboxOnly:
		b.WriteString("let tasks = doc.inboxTasks();\n")
	case q.ProjectID != "":
		b.WriteString("const proj = doc.flattenedProjects.byId(" + jsString(q.ProjectID) + ");\n")
		b.WriteString("if (!proj) { throw new Error('project not found: ' + " + jsString(q.ProjectID) + "); }\n")
		b.WriteString("let tasks = proj.flattenedTasks();\n")
	default:
		b.WriteString("let tasks = doc.flattenedTasks();\n")
	}
	if !q.IncludeCompleted {
		b.WriteString("tasks = tasks.filter((t) => !t.completed());\n")
	}
	if !q.IncludeDropped {
		b.WriteString("tasks = tasks.filter((t) => !t.dropped());\n")
	}
	b.WriteString("console.log(JSON.stringify(tasks.map(projectTask)));")
	return wrap(b.String())
}

// GetTask fetches a single task by identifier.
type GetTask struct {
	ID string
}

func (q GetTask) Render() string {
	body := taskProjection + "\n" +
		"const task = doc.flattenedTasks.byId(" + jsString(q.ID) + ");\n" +
		"if (!task) { throw new Error('task not found: ' + " + jsString(q.ID) + "); }\n" +
		"console.log(JSON.stringify([projectTask(task)]));"
	return wrap(body)
}

// ListProjects fetches all projects as flat records.
type ListProjects struct{}

func (ListProjects) Render() string {
	body := projectProjection + "\n" +
		"console.log(JSON.stringify(doc.flattenedProjects().map(projectRecord)));"
	return wrap(body)
}

// GetProject fetches a single project by identifier.
type GetProject struct {
	ID string
}

func (q GetProject) Render() string {
	body := projectProjection + "\n" +
		"const proj = doc.flattenedProjects.byId(" + jsString(q.ID) + ");\n" +
		"if (!proj) { throw new Error('project not found: ' + " + jsString(q.ID) + "); }\n" +
		"console.log(JSON.stringify([projectRecord(proj)]));"
	return wrap(body)
}

// ListTags fetches every tag as {id, name}.
type ListTags struct{}

func (ListTags) Render() string {
	body := "console.log(JSON.stringify(doc.flattenedTags().map((g) => ({ id: g.id(), name: g.name() }))));"
	return wrap(body)
}

// ListFolders fetches every folder with its materialized path.
type ListFolders struct{}

func (ListFolders) Render() string {
	body := `console.log(JSON.stringify(doc.flattenedFolders().map((f) => {
  const path = [];
  let container = f.container();
  while (container && container.constructor.name === 'Folder') {
    path.unshift(container.name());
    container = container.container();
  }
  return { id: f.id(), name: f.name(), path: path };
})));`
	return wrap(body)
}

// DocumentName fetches the display name of the active backing store. Used
// only by the safety guard.
type DocumentName struct{}

func (DocumentName) Render() string {
	return wrap("console.log(doc.name());")
}
