package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAccounts(t *testing.T) {
	path := writeCSV(t, "index,evmAddress,evmPrivateKey\n1,0xaa,key1\n2,0xbb,key2\n")

	accounts, err := LoadAccounts(path)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, 1, accounts[0].Index)
	assert.Equal(t, "0xaa", accounts[0].Address)
	assert.Equal(t, "key1", accounts[0].PrivateKey)
	assert.Equal(t, 2, accounts[1].Index)
}

func TestLoadAccountsIgnoresExtraColumns(t *testing.T) {
	// 旧格式文件带多余列时照常解析
	path := writeCSV(t, "index,evmAddress,evmPrivateKey,proxy\n1,0xaa,key1,http://127.0.0.1:8080\n")

	accounts, err := LoadAccounts(path)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "key1", accounts[0].PrivateKey)
}

func TestLoadAccountsSkipsEmptyKey(t *testing.T) {
	path := writeCSV(t, "index,evmAddress,evmPrivateKey\n1,0xaa,\n2,0xbb,key2\n")

	accounts, err := LoadAccounts(path)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, 2, accounts[0].Index)
}

func TestLoadAccountsMissingKeyColumn(t *testing.T) {
	path := writeCSV(t, "index,evmAddress\n1,0xaa\n")

	_, err := LoadAccounts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evmprivatekey")
}
