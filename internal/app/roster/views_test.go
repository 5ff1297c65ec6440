package roster_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/preston-bernstein/fantasy-squad-service/internal/app/roster"
	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
	"github.com/preston-bernstein/fantasy-squad-service/internal/testutil"
)

func ids(ps []players.Player) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestPartitionByRoleCoversEveryPlayerOnce(t *testing.T) {
	squad := testutil.NewSquadGenerator(11).Squad(30)
	engine, _ := testutil.NewEngineWithPlayers(t, squad)

	part, err := engine.PartitionByRole(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(squad), part.Total())

	seen := make(map[int64]players.Role)
	for role, group := range map[players.Role][]players.Player{
		players.RoleStart:   part.Starters,
		players.RoleBench:   part.Bench,
		players.RoleReserve: part.Reserves,
	} {
		for _, p := range group {
			require.Equal(t, role, p.Role)
			_, dup := seen[p.ID]
			require.False(t, dup, "player %d in more than one group", p.ID)
			seen[p.ID] = role
		}
	}
	require.Len(t, seen, len(squad))
}

func TestPartitionByRoleAfterSwap(t *testing.T) {
	engine, _ := testutil.NewEngineWithPlayers(t, testutil.SampleSquad())
	ctx := context.Background()

	require.NoError(t, engine.Swap(ctx, 1, 2))
	part, err := engine.PartitionByRole(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff([]int64{2}, ids(part.Starters)); diff != "" {
		t.Fatalf("starters mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1}, ids(part.Bench)); diff != "" {
		t.Fatalf("bench mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{3}, ids(part.Reserves)); diff != "" {
		t.Fatalf("reserves mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionEmptyCatalogHasEmptyGroups(t *testing.T) {
	engine, _ := testutil.NewEngineWithPlayers(t, nil)

	part, err := engine.PartitionByRole(context.Background())
	require.NoError(t, err)
	require.NotNil(t, part.Starters)
	require.NotNil(t, part.Bench)
	require.NotNil(t, part.Reserves)
	require.Zero(t, part.Total())
}

func TestPartitionByRoleWrapsCatalogFailure(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("All", mock.Anything).Return(nil, errors.New("no such table: players"))
	engine := roster.NewEngine(cat, nil, nil)

	_, err := engine.PartitionByRole(context.Background())

	require.ErrorIs(t, err, roster.ErrPersistence)
	cat.AssertExpectations(t)
}

func TestByRole(t *testing.T) {
	squad := []players.Player{
		testutil.SamplePlayer(1, players.RoleStart, 0),
		testutil.SamplePlayer(2, players.RoleBench, 0),
		testutil.SamplePlayer(3, players.RoleStart, 0),
	}
	engine, _ := testutil.NewEngineWithPlayers(t, squad)
	ctx := context.Background()

	starters, err := engine.ByRole(ctx, players.RoleStart)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3}, ids(starters))

	reserves, err := engine.ByRole(ctx, players.RoleReserve)
	require.NoError(t, err)
	require.NotNil(t, reserves)
	require.Empty(t, reserves)

	_, err = engine.ByRole(ctx, players.Role("captain"))
	require.ErrorIs(t, err, roster.ErrValidation)
}

func TestTopByPoints(t *testing.T) {
	engine, _ := testutil.NewEngineWithPlayers(t, testutil.SampleSquad())

	top, err := engine.TopByPoints(context.Background(), 2)
	require.NoError(t, err)

	require.Equal(t, []int64{1, 2}, ids(top))
	require.Equal(t, 250, top[0].Points)
	require.Equal(t, 230, top[1].Points)
}

func TestTopPlayersEdges(t *testing.T) {
	squad := []players.Player{
		testutil.SamplePlayer(4, players.RoleReserve, 100),
		testutil.SamplePlayer(2, players.RoleBench, 100),
		testutil.SamplePlayer(9, players.RoleStart, 300),
		testutil.SamplePlayer(1, players.RoleStart, 50),
	}

	cases := []struct {
		name string
		n    int
		want []int64
	}{
		{"zero", 0, []int64{}},
		{"negative", -3, []int64{}},
		{"ties by id", 3, []int64{9, 2, 4}},
		{"more than squad", 10, []int64{9, 2, 4, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := roster.TopPlayers(squad, tc.n)
			if diff := cmp.Diff(tc.want, ids(got)); diff != "" {
				t.Fatalf("top mismatch (-want +got):\n%s", diff)
			}
		})
	}

	require.Equal(t, int64(4), squad[0].ID, "input must not be reordered")
}

func TestTopByPointsIgnoresRoleAndIsMonotonic(t *testing.T) {
	squad := testutil.NewSquadGenerator(3).Squad(25)
	engine, _ := testutil.NewEngineWithPlayers(t, squad)

	top, err := engine.TopByPoints(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, top, 25)
	for i := 1; i < len(top); i++ {
		require.GreaterOrEqual(t, top[i-1].Points, top[i].Points)
	}
}

func TestExportSheet(t *testing.T) {
	engine, _ := testutil.NewEngineWithPlayers(t, testutil.SampleSquad())

	var buf bytes.Buffer
	require.NoError(t, engine.ExportSheet(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(roster.ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []string{"ID", "Name", "Position", "Team", "Points", "Market Value", "Bid Value", "Role"}, rows[0])
	require.Equal(t, "1", rows[1][0])
	require.Equal(t, "Player 1", rows[1][1])
	require.Equal(t, "reserve", rows[3][7])
}
