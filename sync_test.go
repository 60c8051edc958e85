package schemarepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	schemarepo "github.com/schemarepo-lab/go-schema-repo"
	"github.com/schemarepo-lab/go-schema-repo/formats/avro"
	"github.com/stretchr/testify/require"
)

func writeSchemaFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestClient_SyncDir(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	root := t.TempDir()
	writeSchemaFile(t, filepath.Join(root, "greetings"), "v1.avsc", schemaString)
	writeSchemaFile(t, filepath.Join(root, "greetings"), "v2.avsc", schemaInt)
	writeSchemaFile(t, filepath.Join(root, "audit"), "v1.avsc", schemaLong)
	// Files without a schema extension are ignored.
	writeSchemaFile(t, filepath.Join(root, "audit"), "README.md", "not a schema")

	report, err := client.SyncDir(ctx, root, schemarepo.SyncOptions{ValidatorClass: "repo.Validator"})
	require.NoError(t, err)
	require.Equal(t, 2, report.SubjectsCreated)
	require.Equal(t, 3, report.Registered)
	require.Equal(t, 0, report.AlreadyPresent)
	require.Empty(t, report.Invalid)

	greetings, err := client.Lookup(ctx, "greetings")
	require.NoError(t, err)
	require.NotNil(t, greetings)
	require.Len(t, greetings.AllEntries(ctx), 2)

	// A second run registers nothing new.
	report, err = client.SyncDir(ctx, root, schemarepo.SyncOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, report.SubjectsCreated)
	require.Equal(t, 0, report.Registered)
	require.Equal(t, 3, report.AlreadyPresent)
}

func TestClient_SyncDirPrevalidation(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	root := t.TempDir()
	writeSchemaFile(t, filepath.Join(root, "greetings"), "good.avsc", schemaString)
	writeSchemaFile(t, filepath.Join(root, "greetings"), "broken.avsc", "{not avro")

	p := schemarepo.NewPrevalidator()
	p.RegisterFormat(schemarepo.FormatAvro, avro.NewChecker())

	report, err := client.SyncDir(ctx, root, schemarepo.SyncOptions{Prevalidator: p})
	require.NoError(t, err)
	require.Equal(t, 1, report.Registered)
	require.Len(t, report.Invalid, 1)
	require.Contains(t, report.Invalid[0], "broken.avsc")
}

func TestClient_SyncDirServerRejection(t *testing.T) {
	client, server := newTestClient(t)
	server.RejectSchema = func(schema string) bool { return schema == schemaInt }
	ctx := context.Background()

	root := t.TempDir()
	writeSchemaFile(t, filepath.Join(root, "greetings"), "ok.avsc", schemaString)
	writeSchemaFile(t, filepath.Join(root, "greetings"), "rejected.avsc", schemaInt)

	report, err := client.SyncDir(ctx, root, schemarepo.SyncOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Registered)
	require.Len(t, report.Invalid, 1)
	require.Contains(t, report.Invalid[0], "rejected.avsc")
}

func TestClient_SyncDirInvalidSubjectDir(t *testing.T) {
	client, _ := newTestClient(t)

	root := t.TempDir()
	writeSchemaFile(t, filepath.Join(root, "bad name"), "v1.avsc", schemaString)

	_, err := client.SyncDir(context.Background(), root, schemarepo.SyncOptions{})
	require.ErrorContains(t, err, "not a valid subject name")
}

func TestClient_SyncDirTransportFailureAborts(t *testing.T) {
	client, server := newTestClient(t)
	server.Close()

	root := t.TempDir()
	writeSchemaFile(t, filepath.Join(root, "greetings"), "v1.avsc", schemaString)

	_, err := client.SyncDir(context.Background(), root, schemarepo.SyncOptions{})
	require.Error(t, err)
}
