package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/signalsfoundry/solary/instrument"
	"github.com/signalsfoundry/solary/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, logging.NewFromEnv()))
}

// run evaluates one observation and writes the result to stdout. It returns
// the process exit code: 0 on success, 1 for evaluation errors and 2 for
// usage errors.
func run(args []string, stdout io.Writer, log logging.Logger) int {
	fs := flag.NewFlagSet("snr", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	opticsPath := fs.String("optics", "configs/optics.json", "path to a reflector JSON file")
	ccdPath := fs.String("ccd", "configs/ccd.json", "path to a CCD JSON file")
	constantsPath := fs.String("constants", "", "optional YAML constants override (embedded defaults when empty)")
	aperture := fs.Float64("aperture", 10.0, "photometric aperture in arcsec")
	hfd := fs.Float64("hfd", 10.0, "half flux diameter (seeing) in arcsec")
	exposure := fs.Float64("exposure", 60.0, "exposure time in s")
	mag := fs.Float64("mag", 19.0, "object V magnitude")
	sky := fs.Float64("sky", 19.0, "sky surface brightness in mag/arcsec^2")
	format := fs.String("format", "text", "output format: text | json")

	ctx := context.Background()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.PrintDefaults()
			return 0
		}
		log.Error(ctx, "invalid arguments", logging.Err(err))
		return 2
	}
	if *format != "text" && *format != "json" {
		log.Error(ctx, "unsupported output format", logging.String("format", *format))
		return 2
	}

	tel, err := instrument.LoadTelescopeFiles(*opticsPath, *ccdPath, *constantsPath)
	if err != nil {
		log.Error(ctx, "failed to load instruments",
			logging.String("optics", *opticsPath),
			logging.String("ccd", *ccdPath),
			logging.Err(err),
		)
		return 1
	}

	ev, err := tel.Evaluate(instrument.Observation{
		Aperture:         *aperture,
		HalfFluxDiameter: *hfd,
		ExposureTime:     *exposure,
		ObjectMag:        *mag,
		SkyMag:           *sky,
	})
	if err != nil {
		log.Error(ctx, "evaluation failed", logging.Err(err))
		return 1
	}
	log.Debug(ctx, "evaluation done", logging.Float("snr", ev.SNR))

	if *format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ev); err != nil {
			log.Error(ctx, "failed to write result", logging.Err(err))
			return 1
		}
		return 0
	}
	writeText(stdout, ev)
	return 0
}

func writeText(w io.Writer, ev *instrument.Evaluation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "FOV\t%.1f x %.1f arcsec\n", ev.FOV[0], ev.FOV[1])
	fmt.Fprintf(tw, "iFOV\t%.4f x %.4f arcsec/pixel\n", ev.IFOV[0], ev.IFOV[1])
	fmt.Fprintf(tw, "Pixels in aperture\t%d\n", ev.PixelsInAperture)
	fmt.Fprintf(tw, "Light ratio in aperture\t%.4f\n", ev.LightRatio)
	fmt.Fprintf(tw, "Object signal\t%.0f e-\n", ev.ObjectSignal)
	fmt.Fprintf(tw, "Sky signal\t%.0f e-\n", ev.SkySignal)
	fmt.Fprintf(tw, "Dark signal\t%.0f e-\n", ev.DarkSignal)
	fmt.Fprintf(tw, "SNR\t%.3f\n", ev.SNR)
	_ = tw.Flush()
}
