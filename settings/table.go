package settings

// LayoutEvent is sent to subscribers around changes of the row order.
type LayoutEvent int

const (
	LayoutAboutToChange LayoutEvent = iota
	LayoutChanged
)

// Subscribe registers fn to be called around every SwapOrders.
func (s *Store) Subscribe(fn func(LayoutEvent)) {
	s.observers = append(s.observers, fn)
}

func (s *Store) notify(e LayoutEvent) {
	for _, fn := range s.observers {
		fn(e)
	}
}

// The store doubles as the model of the layer settings grid: one row per
// entry of the render order and three columns.
const (
	ColumnName = iota
	ColumnVisible
	ColumnDescription

	columnCount
)

// Role selects which aspect of a cell is read or written.
type Role int

const (
	DisplayRole Role = iota
	CheckStateRole
)

// CheckState is the state of the visibility check box. Values match the
// conventional tri-state encoding; PartiallyChecked is never produced.
type CheckState int

const (
	Unchecked        CheckState = 0
	PartiallyChecked CheckState = 1
	Checked          CheckState = 2
)

// Orientation selects the header of the grid.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// ItemFlags describe how a cell may be interacted with.
type ItemFlags uint

const (
	ItemSelectable ItemFlags = 1 << iota
	ItemEditable
	ItemUserCheckable
	ItemEnabled

	ItemNoFlags ItemFlags = 0
)

// RowCount returns the number of rows, one per render order entry.
func (s *Store) RowCount() int {
	return len(s.order)
}

// ColumnCount returns the number of grid columns.
func (s *Store) ColumnCount() int {
	return columnCount
}

// Data returns the content of a cell for a role. The second result is false
// for cells that have no value under that role.
func (s *Store) Data(row, col int, role Role) (any, bool) {
	if row < 0 || row >= len(s.order) {
		return nil, false
	}
	name := s.order[row]
	switch {
	case col == ColumnName && role == DisplayRole:
		return name, true
	case col == ColumnVisible && role == CheckStateRole:
		if s.IsLayerVisible(name) {
			return Checked, true
		}
		return Unchecked, true
	case col == ColumnDescription && role == DisplayRole:
		if l, ok := s.layers[name]; ok {
			return l.Description, true
		}
		return "", true
	}
	return nil, false
}

// SetData writes a cell. Only the visibility column accepts writes, through
// CheckStateRole with a CheckState value.
func (s *Store) SetData(row, col int, value any, role Role) bool {
	if row < 0 || row >= len(s.order) || col != ColumnVisible || role != CheckStateRole {
		return false
	}
	state, ok := value.(CheckState)
	if !ok {
		return false
	}
	s.SetLayerVisibility(s.order[row], state == Checked)
	return true
}

// Flags returns the interaction flags of a column.
func (s *Store) Flags(col int) ItemFlags {
	switch col {
	case ColumnName:
		return ItemNoFlags
	case ColumnVisible:
		return ItemEnabled | ItemUserCheckable
	case ColumnDescription:
		return ItemEnabled | ItemSelectable
	default:
		return ItemNoFlags
	}
}

var columnHeaders = [columnCount]string{"Name", "Visible", "Description"}

// HeaderData returns header labels: 1-based row numbers vertically, column
// titles horizontally.
func (s *Store) HeaderData(section int, orientation Orientation, role Role) (any, bool) {
	if role != DisplayRole {
		return nil, false
	}
	switch orientation {
	case Vertical:
		return section + 1, true
	case Horizontal:
		if section >= 0 && section < columnCount {
			return columnHeaders[section], true
		}
	}
	return nil, false
}
