package annotate

// Tool is the active interaction mode of the drawing surface.
type Tool string

const (
	// ToolPointer lets pointer input pass through to the slide content.
	ToolPointer Tool = "pointer"
	// ToolDraw paints ink on top of existing content.
	ToolDraw Tool = "draw"
	// ToolErase removes existing ink.
	ToolErase Tool = "erase"
)

// validTools is the set of recognized tool values.
var validTools = map[Tool]bool{
	ToolPointer: true,
	ToolDraw:    true,
	ToolErase:   true,
}

// ParseTool converts a client-supplied name to a Tool.
func ParseTool(name string) (Tool, bool) {
	t := Tool(name)
	return t, validTools[t]
}

// Intercepts reports whether the surface captures pointer input for t.
func (t Tool) Intercepts() bool {
	return t == ToolDraw || t == ToolErase
}
