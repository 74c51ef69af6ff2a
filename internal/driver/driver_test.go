package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"androcfg/internal/source"
)

const manifestXML = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.app">
    <uses-permission android:name="android.permission.INTERNET"/>
    <application android:label="@string/app_name">
        <activity android:name="com.app.A"/>
    </application>
</manifest>`

const classA = `.class public Lcom/app/A;
.super Ljava/lang/Object;

.method public f()V
    .locals 1
    invoke-direct {p0}, Lcom/app/B;->h()V
    return-void
.end method
`

const classB = `.class public Lcom/app/B;
.super Ljava/lang/Object;

.method public h()V
    .locals 0
    return-void
.end method
`

func newTestStore(t *testing.T) *source.Store {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AndroidManifest.xml"), []byte(manifestXML), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "smali", "com", "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smali", "com", "app", "A.smali"), []byte(classA), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smali", "com", "app", "B.smali"), []byte(classB), 0o644))
	return source.New(dir)
}

func TestRunDiscoversCrossClassFile(t *testing.T) {
	store := newTestStore(t)
	log := zap.NewNop().Sugar()

	result, err := Run(store, filepath.Join(store.Root, "AndroidManifest.xml"), log)
	require.NoError(t, err)

	assert.ElementsMatch(t, result.Permissions, []string{"INTERNET"})
	assert.Len(t, result.Program.Classes, 2)
	assert.Empty(t, result.GlobalFailures)
	assert.Empty(t, result.LibFailures)

	_, ok := result.Program.ClassByFullPath("Lcom/app/A")
	assert.True(t, ok)
	_, ok = result.Program.ClassByFullPath("Lcom/app/B")
	assert.True(t, ok)
}

func TestRunReclassifiesMissingGlobalTargetAsLibrary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AndroidManifest.xml"), []byte(manifestXML), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "smali", "com", "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smali", "com", "app", "A.smali"), []byte(classA), 0o644))
	// B.smali is deliberately never written; A's cross-class call to it
	// must fall back to a synthesized library stub instead of a permanent
	// global-resolution failure.
	store := source.New(dir)
	log := zap.NewNop().Sugar()

	result, err := Run(store, filepath.Join(dir, "AndroidManifest.xml"), log)
	require.NoError(t, err)

	assert.Empty(t, result.GlobalFailures)
	assert.Empty(t, result.LibFailures)

	parsedA, ok := result.Program.ClassByFullPath("Lcom/app/A")
	require.True(t, ok)
	assert.Empty(t, parsedA.InvocationsGlobal)
	require.Len(t, parsedA.InvocationsLib, 1)
	assert.Equal(t, "Lcom/app/B", parsedA.InvocationsLib[0].TargetClass)

	_, ok = result.Program.ClassByFullPath("Lcom/app/B")
	assert.True(t, ok, "a stub class for B should have been synthesized")
}

func TestRunFailsOnEmptyManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AndroidManifest.xml"), []byte(`<manifest/>`), 0o644))
	store := source.New(dir)
	log := zap.NewNop().Sugar()

	_, err := Run(store, filepath.Join(dir, "AndroidManifest.xml"), log)
	assert.Error(t, err)
}
