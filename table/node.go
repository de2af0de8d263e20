package table

// NodeKind 渲染节点类型
type NodeKind string

const (
	NodeKindText       NodeKind = "text"
	NodeKindCheckbox   NodeKind = "checkbox"
	NodeKindMenu       NodeKind = "menu"
	NodeKindSortHeader NodeKind = "sortHeader"
)

// Node 单元格或表头的渲染节点，渲染器按 Kind 选择展示方式
type Node interface {
	Kind() NodeKind
}

// TextNode 纯文本
type TextNode struct {
	Text string
}

func (TextNode) Kind() NodeKind { return NodeKindText }

// CheckboxNode 复选框，Toggle 切换选中状态，禁用选择时 Disabled 为 true
type CheckboxNode struct {
	Label         string
	Checked       bool
	Indeterminate bool
	Disabled      bool
	Toggle        func()
}

func (CheckboxNode) Kind() NodeKind { return NodeKindCheckbox }

// MenuItem 菜单项
type MenuItem struct {
	Label       string
	Icon        string
	Destructive bool
	Invoke      func() error
}

// MenuNode 下拉菜单
type MenuNode struct {
	Label string
	Items []MenuItem
}

func (MenuNode) Kind() NodeKind { return NodeKindMenu }

// SortHeaderNode 可排序的表头
type SortHeaderNode struct {
	Label     string
	Direction SortDirection
	Toggle    func() error
}

func (SortHeaderNode) Kind() NodeKind { return NodeKindSortHeader }
