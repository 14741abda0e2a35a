package database_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expki/go-olapcache/config"
	"github.com/expki/go-olapcache/database"
)

func newSQLite(t *testing.T) *database.SQL {
	t.Helper()

	session, err := database.NewSQL(config.Storage{
		Driver:      config.StorageDriver_Sqlite,
		Sqlite:      filepath.Join(t.TempDir(), "rollups.db"),
		Timeout:     config.Duration(5 * time.Second),
		Concurrency: 4,
	})
	require.NoError(t, err)
	return session
}

func TestSQLExecute(t *testing.T) {
	t.Parallel()

	session := newSQLite(t)
	defer session.Close()

	require.NoError(t, session.DB().Create(&[]database.PlaysByGenreMonth{
		{Genero: "Rock", Mes: "2024-02", Reproducciones: 4},
		{Genero: "jazz", Mes: "2024-01", Reproducciones: 9},
	}).Error)

	rows, err := session.Execute(t.Context(), database.Statement{
		Query:    "SELECT * FROM reproducciones_por_genero_mes",
		PageSize: 3000,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	plays := map[string]int{}
	for _, row := range rows {
		genre, ok := row.String("genero")
		require.True(t, ok)
		count, ok := row.Int("reproducciones")
		require.True(t, ok)
		plays[genre] = count
	}
	assert.Equal(t, map[string]int{"Rock": 4, "jazz": 9}, plays)
}

func TestSQLExecuteConcurrent(t *testing.T) {
	t.Parallel()

	session := newSQLite(t)
	defer session.Close()

	require.NoError(t, session.DB().Create(&[]database.User{
		{UsuarioID: 1, Nombre: "Alice", Ciudad: "Lima"},
		{UsuarioID: 3, Nombre: "Carol", Ciudad: "Quito"},
	}).Error)

	prepared, err := session.Prepare(t.Context(), "SELECT usuario_id, nombre FROM usuarios WHERE usuario_id = ?")
	require.NoError(t, err)

	results, err := session.ExecuteConcurrent(t.Context(), prepared, [][]any{{1}, {2}, {3}})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, result := range results {
		assert.True(t, result.Success)
	}
	name, _ := results[0].Rows[0].String("nombre")
	assert.Equal(t, "Alice", name)
	assert.Empty(t, results[1].Rows)
	name, _ = results[2].Rows[0].String("nombre")
	assert.Equal(t, "Carol", name)
}

func TestSQLUnavailableAfterClose(t *testing.T) {
	t.Parallel()

	session := newSQLite(t)
	session.Close()

	_, err := session.Execute(t.Context(), database.Statement{Query: "SELECT * FROM tendencia_por_dia"})
	assert.ErrorIs(t, err, database.ErrUnavailable)

	prepared, err := session.Prepare(t.Context(), "SELECT cancion_id, titulo FROM canciones WHERE cancion_id = ?")
	require.NoError(t, err)
	_, err = session.ExecuteConcurrent(t.Context(), prepared, [][]any{{10}})
	assert.ErrorIs(t, err, database.ErrUnavailable)
}

func TestSQLPrepareRejectsEmptyStatement(t *testing.T) {
	t.Parallel()

	session := newSQLite(t)
	defer session.Close()

	_, err := session.Prepare(t.Context(), "")
	assert.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := database.Open(config.Storage{Driver: "mongo"})
	assert.ErrorContains(t, err, `unknown storage driver "mongo"`)
}
