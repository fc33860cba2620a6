package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"storyreel/internal/scenario"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiBlue  = "\x1b[34m"
	ansiDim   = "\x1b[2m"
)

// renderDocument writes a human-readable view of an accepted scenario.
func renderDocument(out io.Writer, doc *scenario.Document, colorize bool) {
	title := doc.Title
	if colorize {
		title = ansiBold + ansiBlue + title + ansiReset
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, doc.Logline)

	if len(doc.Characters) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionHeader("Characters", colorize))
		for _, character := range doc.Characters {
			if character.Description != "" {
				fmt.Fprintf(out, "  %s: %s\n", character.Name, character.Description)
			} else {
				fmt.Fprintf(out, "  %s\n", character.Name)
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionHeader("Scenes", colorize))
	rows := make([][]string, 0, len(doc.Scenes))
	for _, scene := range doc.Scenes {
		dialogue := scene.Dialogue
		if !scene.HasDialogue() {
			dialogue = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(scene.Number),
			scene.Timeline,
			scene.CameraMovement,
			scene.DialogueStruct.DisplayName(),
			strconv.Itoa(scene.DurationSeconds) + "s",
			truncate(dialogue, 48),
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{header: "#", alignRight: true},
		{header: "Timeline"},
		{header: "Camera"},
		{header: "Structure"},
		{header: "Length", alignRight: true},
		{header: "Dialogue"},
	}, rows))

	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionHeader("Narration", colorize))
	fmt.Fprintf(out, "  %s\n", doc.Narration.Script)
	if doc.Narration.VoiceTags != "" {
		fmt.Fprintf(out, "  Voice: %s\n", doc.Narration.VoiceTags)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionHeader("Music", colorize))
	fmt.Fprintf(out, "  %s; %s; %s\n", doc.BGM.Style, doc.BGM.Instruments, doc.BGM.Mood)
}

func sectionHeader(title string, colorize bool) string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		return ansiDim + line + ansiReset
	}
	return line
}

// truncate shortens a string to at most max runes. Slicing on runes keeps
// multi-byte text (Korean dialogue in particular) valid UTF-8.
func truncate(value string, max int) string {
	if max <= 3 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

// writeJSON prints v as indented JSON, the machine-readable counterpart of
// renderDocument for --json flags.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
