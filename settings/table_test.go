package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableContract(t *testing.T) {
	s := Open(writeFile(t, "s.xml", exampleXML))

	assert.Equal(t, 2, s.RowCount())
	assert.Equal(t, 3, s.ColumnCount())

	v, ok := s.Data(0, ColumnName, DisplayRole)
	assert.True(t, ok)
	assert.Equal(t, "COALNE", v)

	v, ok = s.Data(0, ColumnVisible, CheckStateRole)
	assert.True(t, ok)
	assert.Equal(t, Unchecked, v)

	v, ok = s.Data(1, ColumnVisible, CheckStateRole)
	assert.True(t, ok)
	assert.Equal(t, Checked, v)

	v, ok = s.Data(1, ColumnDescription, DisplayRole)
	assert.True(t, ok)
	assert.Equal(t, "Depth area", v)

	_, ok = s.Data(0, ColumnVisible, DisplayRole)
	assert.False(t, ok)
	_, ok = s.Data(0, ColumnName, CheckStateRole)
	assert.False(t, ok)
	_, ok = s.Data(2, ColumnName, DisplayRole)
	assert.False(t, ok)
	_, ok = s.Data(-1, ColumnName, DisplayRole)
	assert.False(t, ok)
}

func TestTableSetData(t *testing.T) {
	s := Open(writeFile(t, "s.xml", exampleXML))

	assert.True(t, s.SetData(0, ColumnVisible, Checked, CheckStateRole))
	assert.True(t, s.IsLayerVisible("COALNE"))

	assert.True(t, s.SetData(1, ColumnVisible, Unchecked, CheckStateRole))
	assert.False(t, s.IsLayerVisible("DEPARE"))

	assert.False(t, s.SetData(0, ColumnName, Checked, CheckStateRole))
	assert.False(t, s.SetData(0, ColumnDescription, "new", DisplayRole))
	assert.False(t, s.SetData(0, ColumnVisible, Checked, DisplayRole))
	assert.False(t, s.SetData(0, ColumnVisible, true, CheckStateRole))
	assert.False(t, s.SetData(5, ColumnVisible, Checked, CheckStateRole))
	assert.True(t, s.IsLayerVisible("COALNE"))
}

func TestTableFlags(t *testing.T) {
	s := Open(writeFile(t, "s.xml", exampleXML))

	assert.Equal(t, ItemNoFlags, s.Flags(ColumnName))
	assert.Equal(t, ItemEnabled|ItemUserCheckable, s.Flags(ColumnVisible))
	assert.Equal(t, ItemEnabled|ItemSelectable, s.Flags(ColumnDescription))
	assert.Equal(t, ItemNoFlags, s.Flags(7))
}

func TestTableHeaders(t *testing.T) {
	s := Open(writeFile(t, "s.xml", exampleXML))

	v, ok := s.HeaderData(0, Vertical, DisplayRole)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	for i, want := range []string{"Name", "Visible", "Description"} {
		v, ok := s.HeaderData(i, Horizontal, DisplayRole)
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}

	_, ok = s.HeaderData(3, Horizontal, DisplayRole)
	assert.False(t, ok)
	_, ok = s.HeaderData(0, Horizontal, CheckStateRole)
	assert.False(t, ok)
}

func TestMoveHelpers(t *testing.T) {
	content := `<Settings><Layers>
<Layer><Name>A</Name><Order>1</Order></Layer>
<Layer><Name>B</Name><Order>2</Order></Layer>
<Layer><Name>C</Name><Order>3</Order></Layer>
<Layer><Name>D</Name><Order>4</Order></Layer>
</Layers></Settings>`

	tests := []struct {
		name string
		move func(Swapper)
		want []string
	}{
		{"to top", func(s Swapper) { MoveToTop(s, 2) }, []string{"C", "A", "B", "D"}},
		{"to bottom", func(s Swapper) { MoveToBottom(s, 1) }, []string{"A", "C", "D", "B"}},
		{"up", func(s Swapper) { MoveUp(s, 3) }, []string{"A", "B", "D", "C"}},
		{"down", func(s Swapper) { MoveDown(s, 0) }, []string{"B", "A", "C", "D"}},
		{"up at top", func(s Swapper) { MoveUp(s, 0) }, []string{"A", "B", "C", "D"}},
		{"down at bottom", func(s Swapper) { MoveDown(s, 3) }, []string{"A", "B", "C", "D"}},
		{"out of range", func(s Swapper) { MoveToTop(s, 9); MoveToBottom(s, -1) }, []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(writeFile(t, "s.xml", content))
			tt.move(s)
			assert.Equal(t, tt.want, s.LayersDisplayOrder())
		})
	}
}
