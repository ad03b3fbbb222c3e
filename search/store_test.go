package search

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/vkdoc/errors"
	vktest "github.com/teranos/vkdoc/internal/testing"
)

func sampleDocs() []Document {
	return []Document{
		{
			ID: "vkCmdDraw-0", Title: "vkCmdDraw", Type: "protos", Position: 0,
			Parents: []string{"VK_VERSION_1_0"},
			Command: map[string]string{"tasks": "action"},
			Content: "# vkCmdDraw",
		},
		{
			ID: "VK_UUID_SIZE-0", Title: "VK_UUID_SIZE", Position: 0,
			Content: "Length of a universally unique device or driver build identifier",
		},
	}
}

func TestReplace_Sqlmock(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteAllSQL)).WillReturnResult(sqlmock.NewResult(0, 7))
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO documents"))
	prep.ExpectExec().
		WithArgs("vkCmdDraw-0", "vkCmdDraw", "", "protos", `["VK_VERSION_1_0"]`, `{"tasks":"action"}`, "# vkCmdDraw", 0, "run-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("VK_UUID_SIZE-0", "VK_UUID_SIZE", "", "", `[]`, nil, sqlmock.AnyArg(), 0, "run-1").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	store := NewStore(sqlDB, nil)
	require.NoError(t, store.Replace(context.Background(), "run-1", sampleDocs()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRollsBack_Sqlmock(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteAllSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO documents")).
		ExpectExec().
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	store := NewStore(sqlDB, nil)
	err = store.Replace(context.Background(), "run-1", sampleDocs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert document vkCmdDraw-0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCount_Sqlmock(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := NewStore(sqlDB, nil).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(vktest.CreateTestDB(t), nil)

	require.NoError(t, store.Replace(ctx, "run-1", sampleDocs()))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	docs, err := store.Search(ctx, "vkCmd", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, sampleDocs()[0], docs[0])

	// '_' is literal, not a wildcard
	docs, err = store.Search(ctx, "UUID_SIZE", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "VK_UUID_SIZE", docs[0].Title)
	assert.Nil(t, docs[0].Parents)
	assert.Nil(t, docs[0].Command)

	docs, err = store.Search(ctx, "U_ID", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)

	// a second run replaces the first
	require.NoError(t, store.Replace(ctx, "run-2", sampleDocs()[:1]))
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSearchRanksTitleMatchesFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore(vktest.CreateTestDB(t), nil)

	require.NoError(t, store.Replace(ctx, "run-1", []Document{
		{ID: "vkCmdDraw-1", Title: "vkCmdDraw", Position: 1, Content: "Records a draw"},
		{ID: "VkExtent2D-0", Title: "VkExtent2D", Position: 0, Content: "Used by vkCmdDraw callers"},
		{ID: "vkCmdDraw-0", Title: "vkCmdDraw", Position: 0, Content: "# vkCmdDraw"},
	}))

	docs, err := store.Search(ctx, "vkCmdDraw", 10)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"vkCmdDraw-0", "vkCmdDraw-1", "VkExtent2D-0"},
		[]string{docs[0].ID, docs[1].ID, docs[2].ID})
}

func TestStoreTracesSQL(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := NewStore(vktest.CreateTestDB(t), zap.New(core).Sugar(), WithSQLTrace(true))

	require.NoError(t, store.Replace(context.Background(), "run-1", sampleDocs()))
	_, err := store.Search(context.Background(), "vkCmd", 0)
	require.NoError(t, err)

	traced := logs.FilterMessage("sql").All()
	require.Len(t, traced, 3)
	assert.Equal(t, deleteAllSQL, traced[0].ContextMap()["statement"])
	assert.Contains(t, traced[2].ContextMap()["statement"], "FROM documents WHERE title LIKE ?")

	quiet, quietLogs := observer.New(zapcore.DebugLevel)
	store = NewStore(vktest.CreateTestDB(t), zap.New(quiet).Sugar())
	_, err = store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, quietLogs.FilterMessage("sql").Len())
}
