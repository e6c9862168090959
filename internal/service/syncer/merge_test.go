package syncer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-sync/internal/domain"
)

func fixedID(id string) func() string { return func() string { return id } }

func TestMergeFetched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		local   []domain.DeliveryRequest
		fetched []domain.DeliveryRequest
		want    []domain.DeliveryRequest
		res     MergeResult
	}{
		{
			name: "known server id keeps local fields",
			local: []domain.DeliveryRequest{
				{ID: "a", ServerID: domain.Ptr(int64(5)), CustomerName: "local", SyncStatus: domain.SyncPending},
			},
			fetched: []domain.DeliveryRequest{
				{ServerID: domain.Ptr(int64(5)), CustomerName: "remote", Status: domain.StatusCompleted},
			},
			want: []domain.DeliveryRequest{
				{ID: "a", ServerID: domain.Ptr(int64(5)), CustomerName: "local", SyncStatus: domain.SyncPending},
			},
			res: MergeResult{Unchanged: 1},
		},
		{
			name: "local id match attaches server id",
			local: []domain.DeliveryRequest{
				{ID: "a", CustomerName: "local", SyncStatus: domain.SyncFailed},
			},
			fetched: []domain.DeliveryRequest{
				{ID: "a", ServerID: domain.Ptr(int64(8)), CustomerName: "remote"},
			},
			want: []domain.DeliveryRequest{
				{ID: "a", ServerID: domain.Ptr(int64(8)), CustomerName: "local", SyncStatus: domain.SyncFailed},
			},
			res: MergeResult{Attached: 1},
		},
		{
			name:  "unknown record is appended as synced",
			local: nil,
			fetched: []domain.DeliveryRequest{
				{ID: "other-device", ServerID: domain.Ptr(int64(3)), CustomerName: "remote"},
			},
			want: []domain.DeliveryRequest{
				{ID: "new", ServerID: domain.Ptr(int64(3)), CustomerName: "remote", SyncStatus: domain.SyncSynced},
			},
			res: MergeResult{Added: 1},
		},
		{
			name:  "record without server id is ignored",
			local: nil,
			fetched: []domain.DeliveryRequest{
				{ID: "x", CustomerName: "broken"},
			},
			want: []domain.DeliveryRequest{},
			res:  MergeResult{Ignored: 1},
		},
		{
			name:  "duplicate fetched server id is added once",
			local: nil,
			fetched: []domain.DeliveryRequest{
				{ServerID: domain.Ptr(int64(3))},
				{ServerID: domain.Ptr(int64(3))},
			},
			want: []domain.DeliveryRequest{
				{ID: "new", ServerID: domain.Ptr(int64(3)), SyncStatus: domain.SyncSynced},
			},
			res: MergeResult{Added: 1, Unchanged: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, res := mergeFetched(tt.local, tt.fetched, fixedID("new"))
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.res, res)
		})
	}
}

func TestMergeFetched_DoesNotAliasInput(t *testing.T) {
	t.Parallel()
	local := []domain.DeliveryRequest{{ID: "a"}}
	fetched := []domain.DeliveryRequest{{ID: "a", ServerID: domain.Ptr(int64(1))}}

	_, _ = mergeFetched(local, fetched, fixedID("new"))
	require.Nil(t, local[0].ServerID)
}

func TestReplaceWith(t *testing.T) {
	t.Parallel()

	local := []domain.DeliveryRequest{
		{ID: "synced", ServerID: domain.Ptr(int64(1)), CustomerName: "old", SyncStatus: domain.SyncSynced},
		{ID: "created-elsewhere", CustomerName: "local", SyncStatus: domain.SyncPending},
		{ID: "never-sent", CustomerName: "draft", SyncStatus: domain.SyncOffline},
		{ID: "deleted-remotely", ServerID: domain.Ptr(int64(9)), SyncStatus: domain.SyncSynced},
		{ID: "orphan", SyncStatus: domain.SyncSynced},
	}
	fetched := []domain.DeliveryRequest{
		{ServerID: domain.Ptr(int64(1)), CustomerName: "new", SyncStatus: domain.SyncSynced},
		{ID: "created-elsewhere", ServerID: domain.Ptr(int64(2)), CustomerName: "remote"},
		{ServerID: domain.Ptr(int64(3)), CustomerName: "fresh"},
		{CustomerName: "no id"},
	}

	got, res, kept := replaceWith(local, fetched, fixedID("gen"))

	require.Equal(t, MergeResult{Added: 1, Attached: 1, Unchanged: 1, Ignored: 1}, res)
	require.Equal(t, []string{"never-sent"}, kept)
	require.Equal(t, []domain.DeliveryRequest{
		{ID: "synced", ServerID: domain.Ptr(int64(1)), CustomerName: "new", SyncStatus: domain.SyncSynced},
		{ID: "created-elsewhere", ServerID: domain.Ptr(int64(2)), CustomerName: "remote", SyncStatus: domain.SyncSynced},
		{ID: "gen", ServerID: domain.Ptr(int64(3)), CustomerName: "fresh", SyncStatus: domain.SyncSynced},
		{ID: "never-sent", CustomerName: "draft", SyncStatus: domain.SyncOffline},
	}, got)
}

func TestLocalStats_Empty(t *testing.T) {
	t.Parallel()
	st := localStats(nil)
	require.Zero(t, st.Total)
	require.NotNil(t, st.ByStatus)
	require.NotNil(t, st.BySyncStatus)
}
