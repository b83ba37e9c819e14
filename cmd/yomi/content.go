package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lass9436/YomiYomi-sub002/internal/annotate"
	"github.com/lass9436/YomiYomi-sub002/internal/furigana"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
	"github.com/lass9436/YomiYomi-sub002/internal/study"
)

var (
	addID       string
	addLevel    string
	addCategory string

	kanjiChar    string
	kanjiOnyomi  string
	kanjiKunyomi string
	kanjiMeaning string
	kanjiStrokes int

	wordText    string
	wordReading string
	wordMeaning string

	sentenceTitle       string
	sentenceText        string
	sentenceTranslation string
	sentenceNoAnnotate  bool

	nextLevel string
	nextKind  string
)

// itemWriter is the part of the store the content commands write through.
type itemWriter interface {
	UpsertItem(ctx context.Context, item model.StudyItem) (model.StudyItem, error)
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a kanji, word or sentence",
	}
	cmd.PersistentFlags().StringVar(&addID, "id", "", "item id (generated when empty; an existing id is replaced)")
	cmd.PersistentFlags().StringVar(&addLevel, "level", "ALL", "level (ALL, N5..N1)")
	cmd.PersistentFlags().StringVar(&addCategory, "category", "", "category")

	kanji := &cobra.Command{
		Use:   "kanji",
		Short: "Add a kanji",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(kanjiChar) == "" {
				return fmt.Errorf("--char is required")
			}
			return runAdd(cmd, func(info model.ItemInfo) (model.StudyItem, error) {
				return model.Kanji{
					ItemInfo:  info,
					Character: strings.TrimSpace(kanjiChar),
					Onyomi:    furigana.KatakanaToHiragana(strings.TrimSpace(kanjiOnyomi)),
					Kunyomi:   strings.TrimSpace(kanjiKunyomi),
					Meaning:   strings.TrimSpace(kanjiMeaning),
					Strokes:   kanjiStrokes,
				}, nil
			})
		},
	}
	kanji.Flags().StringVar(&kanjiChar, "char", "", "the character")
	kanji.Flags().StringVar(&kanjiOnyomi, "onyomi", "", "on reading (katakana is converted to hiragana)")
	kanji.Flags().StringVar(&kanjiKunyomi, "kunyomi", "", "kun reading")
	kanji.Flags().StringVar(&kanjiMeaning, "meaning", "", "meaning")
	kanji.Flags().IntVar(&kanjiStrokes, "strokes", 0, "stroke count")

	word := &cobra.Command{
		Use:   "word",
		Short: "Add a vocabulary word",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(wordText) == "" {
				return fmt.Errorf("--word is required")
			}
			return runAdd(cmd, func(info model.ItemInfo) (model.StudyItem, error) {
				return model.Word{
					ItemInfo: info,
					Word:     strings.TrimSpace(wordText),
					Reading:  strings.TrimSpace(wordReading),
					Meaning:  strings.TrimSpace(wordMeaning),
				}, nil
			})
		},
	}
	word.Flags().StringVar(&wordText, "word", "", "the word as written")
	word.Flags().StringVar(&wordReading, "reading", "", "reading in kana")
	word.Flags().StringVar(&wordMeaning, "meaning", "", "meaning")

	sentence := &cobra.Command{
		Use:   "sentence",
		Short: "Add a sentence or passage",
		Long: "Add a sentence or passage. Readings use BASE[READING] markup, e.g. 学生[がくせい].\n" +
			"Text with kanji and no markup is annotated automatically unless --no-annotate is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sentenceText) == "" {
				return fmt.Errorf("--text is required")
			}
			return runAdd(cmd, func(info model.ItemInfo) (model.StudyItem, error) {
				text, err := prepareSentenceText(sentenceText, !sentenceNoAnnotate)
				if err != nil {
					return nil, err
				}
				return model.Sentence{
					ItemInfo:    info,
					Title:       strings.TrimSpace(sentenceTitle),
					Text:        text,
					Translation: strings.TrimSpace(sentenceTranslation),
				}, nil
			})
		},
	}
	sentence.Flags().StringVar(&sentenceTitle, "title", "", "title")
	sentence.Flags().StringVar(&sentenceText, "text", "", "annotated text")
	sentence.Flags().StringVar(&sentenceTranslation, "translation", "", "translation")
	sentence.Flags().BoolVar(&sentenceNoAnnotate, "no-annotate", false, "store plain text as is")

	cmd.AddCommand(kanji, word, sentence)
	return cmd
}

// prepareSentenceText annotates kanji text that carries no readings yet.
func prepareSentenceText(text string, auto bool) (string, error) {
	text = strings.TrimSpace(text)
	if !auto || furigana.HasAnnotation(text) || !furigana.ContainsKanji(text) {
		return text, nil
	}
	a, err := annotate.New()
	if err != nil {
		return "", fmt.Errorf("failed to load dictionary: %w", err)
	}
	return a.Annotate(text), nil
}

func runAdd(cmd *cobra.Command, build func(model.ItemInfo) (model.StudyItem, error)) error {
	level, err := model.ParseLevel(addLevel)
	if err != nil {
		return fmt.Errorf("invalid --level: %w", err)
	}
	item, err := build(model.ItemInfo{
		ID:             strings.TrimSpace(addID),
		Level:          level,
		LearningWeight: 1,
		Category:       strings.TrimSpace(addCategory),
	})
	if err != nil {
		return err
	}

	settings, err := baseSettings(cmd)
	if err != nil {
		return err
	}
	log := openLogger(settings)
	defer log.Sync()
	st, closeStore, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	saved, err := saveItems(commandContext(cmd), st, []model.StudyItem{item})
	if err != nil {
		return err
	}
	return writeLines(cmd.OutOrStdout(), fmt.Sprintf("Added %s %s", saved[0].Kind(), saved[0].Info().ID))
}

func saveItems(ctx context.Context, w itemWriter, items []model.StudyItem) ([]model.StudyItem, error) {
	saved := make([]model.StudyItem, 0, len(items))
	for _, item := range items {
		out, err := w.UpsertItem(ctx, item)
		if err != nil {
			return saved, fmt.Errorf("failed to save %s: %w", item.Kind(), err)
		}
		saved = append(saved, out)
	}
	return saved, nil
}

func newAnnotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annotate [text...]",
		Short: "Print text with furigana markup",
		Long:  "Print text with BASE[READING] markup. Reads lines from stdin when no text is given.",
		RunE:  runAnnotateCmd,
	}
}

func runAnnotateCmd(cmd *cobra.Command, args []string) error {
	a, err := annotate.New()
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}
	if len(args) > 0 {
		return writeLines(cmd.OutOrStdout(), a.Annotate(strings.Join(args, " ")))
	}
	return annotateLines(cmd.InOrStdin(), cmd.OutOrStdout(), a.Annotate)
}

func annotateLines(r io.Reader, w io.Writer, annotateLine func(string) string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := writeLines(w, annotateLine(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List item categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, svc *study.Service) error {
				cats, err := svc.Categories(ctx)
				if err != nil {
					return err
				}
				if len(cats) == 0 {
					logErrf("No categories found.\n")
					return nil
				}
				return writeLines(cmd.OutOrStdout(), cats...)
			})
		},
	}
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show item counts per level",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	settings, err := baseSettings(cmd)
	if err != nil {
		return err
	}
	log := openLogger(settings)
	defer log.Sync()
	st, closeStore, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	counts, err := st.CountByLevel(commandContext(cmd))
	if err != nil {
		return err
	}
	return writeLines(cmd.OutOrStdout(), formatLevelCounts(counts)...)
}

func formatLevelCounts(counts map[model.Level]map[model.Kind]int) []string {
	kinds := []model.Kind{model.KindKanji, model.KindWord, model.KindSentence}
	lines := []string{fmt.Sprintf("%-6s %6s %6s %9s", "Level", kinds[0], kinds[1], kinds[2])}
	for _, level := range model.Levels() {
		byKind := counts[level]
		lines = append(lines, fmt.Sprintf("%-6s %6d %6d %9d", level, byKind[kinds[0]], byKind[kinds[1]], byKind[kinds[2]]))
	}
	return lines
}

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Pick the next item to review by learning weight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := model.ParseLevel(nextLevel)
			if err != nil {
				return fmt.Errorf("invalid --level: %w", err)
			}
			var kind model.Kind
			if nextKind != "" {
				if kind, err = model.ParseKind(nextKind); err != nil {
					return err
				}
			}
			return withService(cmd, func(ctx context.Context, svc *study.Service) error {
				item, pick, err := svc.Next(ctx, level, kind)
				if err != nil {
					return err
				}
				if pick.LevelFallback {
					logErrf("No items at level %s; picked from all levels.\n", level)
				}
				return writeLines(cmd.OutOrStdout(), describeItem(item)...)
			})
		},
	}
	cmd.Flags().StringVar(&nextLevel, "level", "ALL", "level (ALL, N5..N1)")
	cmd.Flags().StringVar(&nextKind, "kind", "", "kanji, word or sentence (default: any)")
	return cmd
}

func describeItem(item model.StudyItem) []string {
	info := item.Info()
	head := fmt.Sprintf("[%s %s] %s  weight %.2f", item.Kind(), info.Level, info.ID, info.LearningWeight)
	switch v := item.(type) {
	case model.Kanji:
		return []string{head, v.Character, fmt.Sprintf("on: %s  kun: %s", v.Onyomi, v.Kunyomi), v.Meaning}
	case model.Word:
		return []string{head, v.Word, v.Reading, v.Meaning}
	case model.Sentence:
		lines := []string{head}
		if v.Title != "" {
			lines = append(lines, v.Title)
		}
		lines = append(lines, furigana.Strip(v.Text), furigana.StripToReadingForm(v.Text))
		if v.Translation != "" {
			lines = append(lines, v.Translation)
		}
		return lines
	default:
		return []string{head}
	}
}

func withService(cmd *cobra.Command, fn func(context.Context, *study.Service) error) error {
	settings, err := baseSettings(cmd)
	if err != nil {
		return err
	}
	log := openLogger(settings)
	defer log.Sync()
	st, closeStore, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()
	svc := study.NewService(st, study.Options{Floor: settings.Floor, Policy: settings.Policy, Logger: log})
	return fn(commandContext(cmd), svc)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
