package main

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"idpportal/internal/app"
	"idpportal/internal/domain"
	"idpportal/internal/export"
	"idpportal/internal/service"
)

var (
	uploadJSON        bool
	uploadContentType string
	uploadExport      string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document and print its confidence report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		contentType := uploadContentType
		if contentType == "" {
			contentType, err = detectContentType(f, path)
			if err != nil {
				return err
			}
		}

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}

		rec, err := a.Uploads.Submit(ctx, service.UploadInput{
			File:        f,
			Name:        filepath.Base(path),
			Size:        info.Size(),
			ContentType: contentType,
		})
		if err != nil {
			// Only the fixed message is shown; the cause goes to the log.
			log.Debug().Err(err).Msg("upload failed")
			return fmt.Errorf("%s", domain.UserMessage(err))
		}

		out := cmd.OutOrStdout()
		if uploadJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec.Result)
		}

		_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", domain.MsgUploadSucceeded, rec.Name, rec.ID)
		report, err := a.Uploads.Confidence(rec.ID)
		if err != nil {
			return err
		}
		outcome, err := a.Uploads.Validation(rec.ID)
		if err != nil {
			return err
		}
		if rec.SecondaryUnavailable() {
			_, _ = fmt.Fprintln(out, "secondary result unavailable")
		}
		renderValidation(out, outcome, rec.Name)
		renderReport(out, *report)

		if uploadExport != "" {
			return writeExport(uploadExport, export.Document{
				Name:       rec.Name,
				Report:     *report,
				Validation: outcome,
				ExportedAt: time.Now(),
			})
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadJSON, "json", false, "print the merged result as JSON")
	uploadCmd.Flags().StringVar(&uploadContentType, "content-type", "", "override the detected content type")
	uploadCmd.Flags().StringVar(&uploadExport, "export", "", "write the confidence report to a .csv or .xlsx file")
	rootCmd.AddCommand(uploadCmd)
}

// detectContentType prefers the extension and falls back to sniffing the
// first 512 bytes. f is rewound afterwards.
func detectContentType(f *os.File, path string) (string, error) {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType, nil
		}
	}
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if _, err := f.Seek(0, 0); err != nil {
		return "", fmt.Errorf("rewind %s: %w", path, err)
	}
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(buf[:n]))
	if err != nil {
		return "application/octet-stream", nil
	}
	return mediaType, nil
}

func writeExport(path string, doc export.Document) error {
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if format == export.FormatXLSX {
		err = export.WriteXLSX(f, doc)
	} else {
		err = export.WriteCSV(f, doc)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("report exported")
	return nil
}
