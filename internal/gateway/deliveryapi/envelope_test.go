package deliveryapi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-sync/internal/apperr"
)

func TestDecodeList_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		shape    listShape
		ids      []int64
		count    int
		next     string
		previous string
	}{
		{
			name:  "results page",
			body:  `{"count":3,"next":"http://x/?page=2","previous":null,"results":[{"id":1},{"id":2}]}`,
			shape: shapeResults, ids: []int64{1, 2}, count: 3, next: "http://x/?page=2",
		},
		{
			name:  "wrapped results",
			body:  `{"success":true,"data":{"count":1,"results":[{"id":7}]}}`,
			shape: shapeResults, ids: []int64{7}, count: 1,
		},
		{
			name:  "requests with pagination",
			body:  `{"requests":[{"id":4}],"pagination":{"page":2,"totalPages":3,"total":21}}`,
			shape: shapeRequests, ids: []int64{4}, count: 21, next: "page=3", previous: "page=1",
		},
		{
			name:  "nested data requests",
			body:  `{"data":{"requests":[{"id":5},{"id":6}],"pagination":{"page":1,"totalPages":1,"total":2}}}`,
			shape: shapeNestedRequests, ids: []int64{5, 6}, count: 2,
		},
		{
			name:  "bare array",
			body:  `[{"id":9}]`,
			shape: shapeBareArray, ids: []int64{9}, count: 1,
		},
		{
			name:  "wrapped bare array",
			body:  `{"success":true,"data":[{"id":10}]}`,
			shape: shapeBareArray, ids: []int64{10}, count: 1,
		},
		{name: "unknown object", body: `{"hello":"world"}`, shape: shapeUnknown},
		{name: "scalar", body: `42`, shape: shapeUnknown},
		{name: "empty body", body: ``, shape: shapeUnknown},
		{name: "nested data without requests", body: `{"data":{"foo":1}}`, shape: shapeUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, err := decodeList([]byte(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.shape, env.Shape, env.Shape.String())
			require.Len(t, env.Records, len(tt.ids))
			for i, id := range tt.ids {
				require.Equal(t, id, *env.Records[i].ID)
			}
			require.Equal(t, tt.count, env.Count)
			require.Equal(t, tt.next, env.Next)
			require.Equal(t, tt.previous, env.Previous)
		})
	}
}

func TestDecodeList_InvalidJSON(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"results":`, `[{"id":}]`, `nope`} {
		_, err := decodeList([]byte(body))
		require.Error(t, err, body)
		require.ErrorIs(t, err, apperr.ErrRemoteUnavailable)
	}
}

func TestDecodeRecord_Unwraps(t *testing.T) {
	t.Parallel()

	d, err := decodeRecord([]byte(`{"success":true,"data":{"id":3,"pickup_address":"A"}}`))
	require.NoError(t, err)
	require.Equal(t, int64(3), *d.ID)
	require.Equal(t, "A", d.PickupAddress)

	d, err = decodeRecord([]byte(`{"id":4}`))
	require.NoError(t, err)
	require.Equal(t, int64(4), *d.ID)
}
