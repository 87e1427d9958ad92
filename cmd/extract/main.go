// Command extract runs the extraction pipeline on one file and prints
// the rendered result to stdout. The extraction log trail goes to
// stderr so output stays pipeable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	textextract "github.com/jpfrost94/universal-text-extractor"
	"github.com/jpfrost94/universal-text-extractor/export"
)

func main() {
	var (
		filePath    = flag.String("file", "", "File to extract text from (required)")
		fileType    = flag.String("type", "", "Declared file type, blank for auto-detect")
		configPath  = flag.String("config", "", "Path to config file (YAML or JSON)")
		useOCR      = flag.Bool("ocr", true, "Enable OCR for images and scanned PDFs")
		lang        = flag.String("lang", "", "OCR language (ISO-639-1 or Tesseract code)")
		handwriting = flag.Bool("handwriting", false, "Tune OCR for handwritten text")
		format      = flag.String("format", "txt", "Output format: txt, csv, or json")
		outPath     = flag.String("out", "", "Write output to file instead of stdout")
		noStats     = flag.Bool("no-stats", false, "Skip recording extraction analytics")
		quiet       = flag.Bool("quiet", false, "Suppress the extraction log trail")
	)
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: extract -file <path> [-type pdf] [-format txt|csv|json]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	outFormat, err := export.ParseFormat(*format)
	if err != nil {
		fatal(err)
	}

	cfg := textextract.DefaultConfig()
	if *configPath != "" {
		cfg, err = textextract.LoadConfig(*configPath)
		if err != nil {
			fatal(err)
		}
	}
	if *noStats {
		cfg.DisableAnalytics = true
	}

	svc, err := textextract.New(cfg)
	if err != nil {
		fatal(err)
	}
	defer svc.Close()

	req := textextract.Request{
		Path:        *filePath,
		FileType:    *fileType,
		UseOCR:      useOCR,
		OCRLanguage: *lang,
		Handwriting: *handwriting,
	}

	res, err := svc.ExtractTextFromFile(context.Background(), req)
	if err != nil {
		fatal(err)
	}

	if !*quiet {
		for _, entry := range res.Logs {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", strings.ToUpper(string(entry.Level)), entry.Message)
		}
		fmt.Fprintf(os.Stderr, "outcome: %s (ocr_used=%v, %s)\n",
			res.Outcome, res.OCRUsed, res.Duration.Round(1e6))
	}

	rendered, err := export.Render(res.Text, outFormat)
	if err != nil {
		fatal(err)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, rendered, 0o644); err != nil {
			fatal(err)
		}
		return
	}
	os.Stdout.Write(rendered)
	if len(rendered) > 0 && rendered[len(rendered)-1] != '\n' {
		fmt.Println()
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "extract:", err)
	os.Exit(1)
}
