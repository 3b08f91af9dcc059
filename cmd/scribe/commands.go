package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/sessionscribe/scribe/internal/client"
	"github.com/sessionscribe/scribe/internal/config"
	"github.com/sessionscribe/scribe/internal/editor"
	"github.com/sessionscribe/scribe/internal/export"
	"github.com/sessionscribe/scribe/internal/form"
)

// errReported marks failures already shown to the user.
var errReported = errors.New("reported")

type writerReporter struct {
	w io.Writer
}

func (r writerReporter) ReportFailure(message string) {
	fmt.Fprintf(r.w, "error: %s\n", message)
}

func newRootCmd() *cobra.Command {
	var apiURL string

	rootCmd := &cobra.Command{
		Use:           "scribe",
		Short:         "Compose, generate and file therapy session notes",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", config.LoadClient().BaseURL, "backend base URL (env SCRIBE_API_URL)")

	newAPI := func() *client.Client {
		return client.New(apiURL, nil)
	}

	rootCmd.AddCommand(composeCmd(newAPI))
	rootCmd.AddCommand(generateCmd(newAPI))
	rootCmd.AddCommand(saveCmd(newAPI))
	rootCmd.AddCommand(listCmd(newAPI))
	rootCmd.AddCommand(typesCmd(newAPI))

	return rootCmd
}

func composeCmd(newAPI func() *client.Client) *cobra.Command {
	var (
		name, date, duration, sessionType string
		save                              bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Type bullet notes line by line, then generate a summary",
		Long: `Reads one bullet per line from stdin. An empty line removes the empty
bullet at the end of the notes. At end of input the notes are sent for
generation and, with --save, the result is saved for the patient.

Example:
  printf 'engaged\ntired\n' | scribe compose --name "Jane Doe" --date 2024-03-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			f := form.NewSessionForm(newAPI(), writerReporter{cmd.ErrOrStderr()})
			f.SetPatientName(name)
			f.SetDate(date)
			f.SetDuration(duration)
			f.SetSessionType(sessionType)

			if err := composeNotes(f, cmd.InOrStdin()); err != nil {
				return fmt.Errorf("read notes: %w", err)
			}
			fmt.Fprintf(out, "Notes:\n%s\n\n", f.State().Notes)

			if err := f.Submit(cmd.Context()); err != nil {
				return errReported
			}
			fmt.Fprintf(out, "Generated notes:\n%s\n", f.State().Response)

			if save {
				if !f.Save(cmd.Context()) {
					return errReported
				}
				fmt.Fprintln(out, "Notes saved successfully.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "patient name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "session date")
	cmd.Flags().StringVar(&duration, "duration", "", "session duration in minutes")
	cmd.Flags().StringVarP(&sessionType, "type", "t", "", "session type (see `scribe types`)")
	cmd.Flags().BoolVar(&save, "save", false, "save the generated notes")

	return cmd
}

// composeNotes replays each input line as keystrokes against the notes field:
// the line text followed by Enter, or a backspace over an empty bullet for a
// blank line.
func composeNotes(f *form.SessionForm, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			dropEmptyBullet(f)
			continue
		}
		typeText(f, f.State().Notes+line)
		typeText(f, f.State().Notes+"\n")
	}
	dropEmptyBullet(f)
	return scanner.Err()
}

func dropEmptyBullet(f *form.SessionForm) {
	current := f.State().Notes
	if strings.HasSuffix(current, "\n"+editor.Marker) {
		typeText(f, strings.TrimSuffix(current, " "))
	}
}

func typeText(f *form.SessionForm, input string) {
	f.EditNotes(input, utf8.RuneCountInString(input))
}

func generateCmd(newAPI func() *client.Client) *cobra.Command {
	var duration, sessionType, notes string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a session summary from notes",
		Long: `Sends notes to the backend and prints the generated summary. Notes are
taken from --notes, or from stdin when --notes is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := notesInput(cmd, notes)
			if err != nil {
				return err
			}

			result, err := newAPI().Generate(cmd.Context(), client.GenerateRequest{
				SessionType: sessionType,
				Duration:    duration,
				Notes:       body,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&duration, "duration", "", "session duration in minutes")
	cmd.Flags().StringVarP(&sessionType, "type", "t", "", "session type")
	cmd.Flags().StringVar(&notes, "notes", "", "raw session notes")

	return cmd
}

func saveCmd(newAPI func() *client.Client) *cobra.Command {
	var name, date, notes string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save notes for a patient and date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := notesInput(cmd, notes)
			if err != nil {
				return err
			}

			f := form.NewSessionForm(newAPI(), writerReporter{cmd.ErrOrStderr()})
			f.SetPatientName(name)
			f.SetDate(date)
			f.SetEditableNotes(body)
			if !f.Save(cmd.Context()) {
				return errReported
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notes saved successfully.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "patient name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "session date")
	cmd.Flags().StringVar(&notes, "notes", "", "notes to save (default: stdin)")

	return cmd
}

func listCmd(newAPI func() *client.Client) *cobra.Command {
	var name, exportDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved notes, latest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			list := form.NewNoteList(newAPI(), writerReporter{cmd.ErrOrStderr()})
			if err := list.Load(cmd.Context()); err != nil {
				return errReported
			}
			list.SetQuery(name)

			visible := list.Visible()
			if len(visible) == 0 {
				fmt.Fprintln(out, form.EmptyMessage)
				return nil
			}
			for _, n := range visible {
				fmt.Fprintf(out, "%s  %s\n%s\n\n", n.Date, n.Name, n.Notes)
			}

			if exportDir != "" {
				paths, err := export.WriteAll(exportDir, visible)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Exported %d notes to %s\n", len(paths), exportDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "filter by patient name")
	cmd.Flags().StringVar(&exportDir, "export", "", "write the listed notes as markdown into this directory")

	return cmd
}

func typesCmd(newAPI func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Show the available session types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := newAPI().SessionTypes(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t.Label)
			}
			return nil
		},
	}
}

func notesInput(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
