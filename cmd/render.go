package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/modules/report/export"
	"github.com/yungbote/lovepattern-backend/internal/modules/report/render"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

type renderOptions struct {
	input  string
	photo  string
	format string
	out    string
	font   string
}

func newRenderCommand() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a saved analysis result as a PDF, printable HTML or YAML section model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.font == "" {
				opts.font = os.Getenv("REPORT_FONT_PATH")
			}
			return runRender(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.input, "input", "", "AnalysisResult JSON file")
	cmd.Flags().StringVar(&opts.photo, "photo", "", "optional photo for the persona page")
	cmd.Flags().StringVar(&opts.format, "format", "pdf", "pdf, html or yaml")
	cmd.Flags().StringVar(&opts.out, "out", "", "output file; - for stdout (default LovePattern_Full_Analysis.<ext>)")
	cmd.Flags().StringVar(&opts.font, "font", "", "TTF used for PDF pages (default REPORT_FONT_PATH)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runRender(ctx context.Context, opts renderOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var result pattern.AnalysisResult
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return fmt.Errorf("decode %s: %w", opts.input, err)
	}
	if err := result.Validate(); err != nil {
		return err
	}

	var photo []byte
	if opts.photo != "" {
		if photo, err = os.ReadFile(opts.photo); err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
	}
	photoURL := ""
	if len(photo) > 0 {
		photoURL = filepath.Base(opts.photo)
	}
	doc := render.Render(result, photoURL)

	format := strings.ToLower(strings.TrimSpace(opts.format))
	var body []byte
	fileName := export.FileBaseName + ".yaml"
	if format == "yaml" {
		if body, err = yaml.Marshal(doc); err != nil {
			return err
		}
	} else {
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		a, err := exportDocument(ctx, doc, f, photo, opts.font)
		if err != nil {
			return err
		}
		if a.Fallback {
			fmt.Fprintln(os.Stderr, "no usable font for PDF pages; wrote the printable HTML document instead")
		}
		body, fileName = a.Body, a.FileName
	}

	switch opts.out {
	case "-":
		_, err = stdout.Write(body)
		return err
	case "":
		opts.out = fileName
	}
	if err := os.WriteFile(opts.out, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	fmt.Fprintln(stdout, opts.out)
	return nil
}

func exportDocument(ctx context.Context, doc render.Document, format export.Format, photo []byte, fontPath string) (*export.Artifact, error) {
	var font []byte
	if fontPath != "" {
		var err error
		if font, err = os.ReadFile(fontPath); err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
	}
	ex, err := export.NewExporter(logger.NewNop(), export.Config{FontTTF: font}, nil)
	if err != nil {
		return nil, err
	}
	req := export.Request{Document: doc, Format: format, Photo: photo}
	if len(photo) > 0 {
		req.PhotoMIME = http.DetectContentType(photo)
	}
	return ex.Export(ctx, req)
}
