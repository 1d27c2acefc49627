package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

func TestRunAnnotateStatus(t *testing.T) {
	path, matchID, _ := seedDatastore(t)
	annotateDatastore = path

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runAnnotateStatus(cmd, []string{matchID, "accept"}))
	assert.Contains(t, buf.String(), "status = accept")

	s, err := openStore(path)
	require.NoError(t, err)
	defer s.Close()

	details, err := s.MatchDetails()
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Status)
	assert.Equal(t, types.StatusAccept, *details[0].Status)
}

func TestRunAnnotateStatus_Invalid(t *testing.T) {
	path, matchID, _ := seedDatastore(t)
	annotateDatastore = path

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	assert.Error(t, runAnnotateStatus(cmd, []string{matchID, "maybe"}))
	assert.Error(t, runAnnotateStatus(cmd, []string{"0000000000000000000000000000000000000000", "accept"}))
}

func TestRunAnnotateComment_Match(t *testing.T) {
	path, matchID, _ := seedDatastore(t)
	annotateDatastore = path
	annotateFinding = false

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	require.NoError(t, runAnnotateComment(cmd, []string{matchID, "false positive"}))

	s, err := openStore(path)
	require.NoError(t, err)
	defer s.Close()

	details, err := s.MatchDetails()
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Comment)
	assert.Equal(t, "false positive", *details[0].Comment)
}

func TestRunAnnotateComment_Finding(t *testing.T) {
	path, _, findingID := seedDatastore(t)
	annotateDatastore = path
	annotateFinding = true
	defer func() { annotateFinding = false }()

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	require.NoError(t, runAnnotateComment(cmd, []string{findingID, "verified leak"}))

	s, err := openStore(path)
	require.NoError(t, err)
	defer s.Close()

	rollups, err := s.FindingRollups()
	require.NoError(t, err)
	require.Len(t, rollups, 1)
	require.NotNil(t, rollups[0].Comment)
	assert.Equal(t, "verified leak", *rollups[0].Comment)
}

func TestRunAnnotateScore(t *testing.T) {
	path, matchID, _ := seedDatastore(t)
	annotateDatastore = path

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	require.NoError(t, runAnnotateScore(cmd, []string{matchID, "0.75"}))

	s, err := openStore(path)
	require.NoError(t, err)
	defer s.Close()

	details, err := s.MatchDetails()
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Score)
	assert.Equal(t, 0.75, *details[0].Score)
}

func TestRunAnnotateScore_Invalid(t *testing.T) {
	path, matchID, _ := seedDatastore(t)
	annotateDatastore = path

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	assert.Error(t, runAnnotateScore(cmd, []string{matchID, "not-a-number"}))
	assert.Error(t, runAnnotateScore(cmd, []string{matchID, "1.5"}))
	assert.Error(t, runAnnotateScore(cmd, []string{matchID, "NaN"}))
}
