package main

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgpicture/svgpdf"
	"github.com/benoitkugler/svgpicture/svgpdf/alt"
	"github.com/benoitkugler/svgpicture/svgraster"
	"github.com/benoitkugler/svgpicture/svgrender"
	"github.com/go-logr/stdr"
	"github.com/tdewolff/argp"
)

type Convert struct {
	Output  string  `short:"o" desc:"Output file, the format is deduced from its extension"`
	Format  string  `short:"f" default:"" desc:"Output format: png or pdf"`
	Backend string  `default:"gofpdf" desc:"PDF backend: gofpdf or contentstream"`
	PPI     float64 `default:"160" desc:"Pixels per inch, used to resolve physical units"`
	Width   float64 `desc:"Canvas width, overriding the document width"`
	Height  float64 `desc:"Canvas height, overriding the document height"`
	Strict  bool    `desc:"Fail on unsupported constructs"`
	Quiet   bool    `short:"q" desc:"Ignore unsupported constructs"`
	Verbose int     `short:"v" desc:"Logging verbosity"`
	Input   string  `index:"0" desc:"Input SVG file, or - for standard input"`
}

func main() {
	root := argp.NewCmd(&Convert{}, "SVG to PNG and PDF converter")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Convert) format() (string, error) {
	format := strings.ToLower(cmd.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(cmd.Output)), ".")
	}
	switch format {
	case "png", "pdf":
		return format, nil
	case "":
		return "png", nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

type renderFunc func(io.Reader, io.Writer, svgrender.Options) error

func (cmd *Convert) pdfBackend() (renderFunc, error) {
	switch strings.ToLower(cmd.Backend) {
	case "", "gofpdf":
		return svgpdf.RenderSVGToPDF, nil
	case "contentstream":
		return alt.RenderSVGToPDF, nil
	default:
		return nil, fmt.Errorf("unsupported PDF backend: %s", cmd.Backend)
	}
}

func (cmd *Convert) options() svgrender.Options {
	stdr.SetVerbosity(cmd.Verbose)
	opts := svgrender.Options{
		PixelsPerInch: cmd.PPI,
		CanvasSize:    svgrender.Size{W: cmd.Width, H: cmd.Height},
		Logger:        stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("svgconvert"),
	}
	switch {
	case cmd.Strict:
		opts.ErrorMode = svgrender.StrictErrorMode
	case cmd.Quiet:
		opts.ErrorMode = svgrender.IgnoreErrorMode
	}
	return opts
}

func (cmd *Convert) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	} else if cmd.Strict && cmd.Quiet {
		fmt.Println("ERROR: --strict and --quiet are exclusive")
		return argp.ShowUsage
	}
	format, err := cmd.format()
	if err != nil {
		return err
	}
	renderPDF, err := cmd.pdfBackend()
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if cmd.Input != "-" {
		f, err := os.Open(cmd.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	// the output is only created once the conversion succeeded
	var buf bytes.Buffer
	switch format {
	case "pdf":
		err = renderPDF(r, &buf, cmd.options())
	default:
		err = writePNG(r, &buf, cmd.options())
	}
	if err != nil {
		return err
	}

	if cmd.Output == "" || cmd.Output == "-" {
		_, err = buf.WriteTo(os.Stdout)
		return err
	}
	return os.WriteFile(cmd.Output, buf.Bytes(), 0644)
}

func writePNG(r io.Reader, w io.Writer, opts svgrender.Options) error {
	img, err := svgraster.RasterSVGToImage(r, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
