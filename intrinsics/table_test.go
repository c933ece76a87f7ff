package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgraph/mapcore/valuecodec"
)

func TestTable_DedupWithinTolerance(t *testing.T) {
	table := NewTable()

	i0 := table.Index(Source{Values: valuecodec.Intrinsics{FX: 500, FY: 500, CX: 320, CY: 240}})
	i1 := table.Index(Source{Values: valuecodec.Intrinsics{FX: 500.05, FY: 500, CX: 320, CY: 240}})

	require.Equal(t, i0, i1)
	require.Equal(t, 1, table.Len())
}

func TestTable_DistinctOutsideTolerance(t *testing.T) {
	table := NewTable()

	i0 := table.Index(Source{Values: valuecodec.Intrinsics{FX: 500, FY: 500, CX: 320, CY: 240}})
	i1 := table.Index(Source{Values: valuecodec.Intrinsics{FX: 501, FY: 500, CX: 320, CY: 240}})

	require.NotEqual(t, i0, i1)
	require.Equal(t, 2, table.Len())
}

func TestTable_PointerIdentityFastPath(t *testing.T) {
	table := NewTable()
	shared := new(valuecodec.Intrinsics)
	*shared = valuecodec.Intrinsics{FX: 1000, FY: 1000, CX: 640, CY: 360}

	i0 := table.Index(Source{Key: shared, Values: *shared})
	i1 := table.Index(Source{Key: shared, Values: *shared})

	require.Equal(t, i0, i1)
	require.Equal(t, 1, table.Len())
}

func TestTable_PreservesFirstSeenOrder(t *testing.T) {
	table := NewTable()
	table.Index(Source{Values: valuecodec.Intrinsics{FX: 1}})
	table.Index(Source{Values: valuecodec.Intrinsics{FX: 2}})

	values := table.Values()
	require.Len(t, values, 2)
	require.Equal(t, float32(1), values[0].FX)
	require.Equal(t, float32(2), values[1].FX)
}

func TestTable_Reset(t *testing.T) {
	table := NewTable()
	table.Index(Source{Values: valuecodec.Intrinsics{FX: 1}})
	table.Reset()

	require.Equal(t, 0, table.Len())
}

func TestIndexMap_ZeroDefault(t *testing.T) {
	m := NewIndexMap(3)
	require.Equal(t, uint32(0), m.Get(2))

	m.Set(2, 5)
	require.Equal(t, uint32(5), m.Get(2))
}
