package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lass9436/YomiYomi-sub002/internal/config"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
	"github.com/lass9436/YomiYomi-sub002/internal/study"
)

func TestStatsConfig(t *testing.T) {
	cfg, err := statsConfig("Cloze", "2026-03-01", 5, 3)
	require.NoError(t, err)
	assert.Equal(t, "cloze", cfg.Mode)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, 3, int(cfg.Since.Month()))
	assert.Equal(t, 5, cfg.Last)

	_, err = statsConfig("typing", "", 0, 1)
	assert.Error(t, err)
	_, err = statsConfig("", "March", 0, 1)
	assert.Error(t, err)
	_, err = statsConfig("", "", -1, 1)
	assert.Error(t, err)
	_, err = statsConfig("", "", 0, 0)
	assert.Error(t, err)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var fc config.FileConfig
	_, err := toml.Decode(defaultConfigTemplate(), &fc)
	require.NoError(t, err)
	assert.Nil(t, fc.Study.Mode)

	uncommented := strings.ReplaceAll(defaultConfigTemplate(), "# mode", "mode")
	_, err = toml.Decode(uncommented, &fc)
	require.NoError(t, err)
	require.NotNil(t, fc.Study.Mode)
	assert.Equal(t, config.Defaults().Mode, *fc.Study.Mode)
}

func TestPrepareError(t *testing.T) {
	err := prepareError(study.ModeCloze, study.ErrNoItems)
	assert.ErrorIs(t, err, study.ErrNoItems)
	assert.Contains(t, err.Error(), "yomi add sentence")

	other := errors.New("boom")
	assert.Equal(t, other, prepareError(study.ModeCloze, other))
}

func TestFormatLevelCounts(t *testing.T) {
	lines := formatLevelCounts(map[model.Level]map[model.Kind]int{
		model.LevelN5: {model.KindWord: 3, model.KindSentence: 1},
	})
	require.Len(t, lines, len(model.Levels())+1)
	assert.Equal(t, "N5          0      3         1", lines[2])
}

func TestDescribeItem(t *testing.T) {
	lines := describeItem(model.Sentence{
		ItemInfo:    model.ItemInfo{ID: "s1", Level: model.LevelN5, LearningWeight: 0.5},
		Text:        "本[ほん]を読[よ]む",
		Translation: "read a book",
	})
	assert.Equal(t, []string{"[sentence N5] s1  weight 0.50", "本を読む", "ほんをよむ", "read a book"}, lines)
}

type fakeWriter struct {
	saved []model.StudyItem
	fail  bool
}

func (f *fakeWriter) UpsertItem(_ context.Context, item model.StudyItem) (model.StudyItem, error) {
	if f.fail {
		return nil, errors.New("locked")
	}
	f.saved = append(f.saved, item)
	return item, nil
}

func TestSaveItems(t *testing.T) {
	w := &fakeWriter{}
	items := []model.StudyItem{model.Word{Word: "本"}}
	saved, err := saveItems(context.Background(), w, items)
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	_, err = saveItems(context.Background(), &fakeWriter{fail: true}, items)
	assert.ErrorContains(t, err, "failed to save word")
}

func TestAnnotateLines(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("one\ntwo\n")
	require.NoError(t, annotateLines(in, &out, strings.ToUpper))
	assert.Equal(t, "ONE\nTWO\n", out.String())
}

func TestPrepareSentenceTextKeepsMarkup(t *testing.T) {
	text, err := prepareSentenceText(" 本[ほん]を読[よ]む ", true)
	require.NoError(t, err)
	assert.Equal(t, "本[ほん]を読[よ]む", text)

	text, err = prepareSentenceText("本を読む", false)
	require.NoError(t, err)
	assert.Equal(t, "本を読む", text)
}
