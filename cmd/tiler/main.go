package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/wgdzlh/tilerlib"
	"github.com/wgdzlh/tilerlib/utils"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/tbonfort/gobs"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v2"
)

var (
	tmpDir   string
	timeout  time.Duration
	quiet    bool
	toolsCfg string

	baseLink      string
	outFolder     string
	zoomStr       string
	nodataStr     string
	convert       bool
	contrast      bool
	contrastStr   string
	move          bool
	tilerArgs     string
	bandsStr      string
	stretchRange  string
	stretchNodata float64
	stretchOut    string
	thumbsSizeStr string
	thumbsFormat  string
	noScale       bool
	fpSimplify    float64
	fpType        string
	fpEpsg        int
	parallelism   int

	toolbox *tilerlib.TilerToolbox
)

var rootCmd = &cobra.Command{
	Use:   "tiler",
	Short: "TMS tiling and raster preview cli",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := []tilerlib.Option{}
		if tmpDir != "" {
			opts = append(opts, tilerlib.WithTmpDir(tmpDir))
		}
		if toolsCfg != "" {
			var tools tilerlib.ToolSet
			if err := yaml.Unmarshal([]byte(toolsCfg), &tools); err != nil {
				return fmt.Errorf("parse tools config: %w", err)
			}
			opts = append(opts, tilerlib.WithTools(tools))
		}
		if timeout > 0 {
			opts = append(opts, tilerlib.WithTimeout(timeout))
		}
		if tilerArgs != "" {
			extra, err := shellwords.Parse(tilerArgs)
			if err != nil {
				return fmt.Errorf("parse tiler args: %w", err)
			}
			opts = append(opts, tilerlib.WithTilerArgs(extra))
		}
		toolbox = tilerlib.NewTilerToolbox(opts...)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tmpDir, "tmp-dir", "", "directory for intermediate files")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "wall-clock limit per external command")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().StringVar(&toolsCfg, "tools", "", "yaml mapping of tool names to executable paths")
	rootCmd.AddCommand(makeTilesCmd, composeCmd, stretchCmd, thumbsCmd, footprintCmd, batchCmd)

	makeTilesCmd.Flags().StringVar(&baseLink, "base-link", "http://localhost", "http url prefix for the xml descriptor")
	makeTilesCmd.Flags().StringVar(&outFolder, "out", ".", "output folder for pyramid and xml")
	makeTilesCmd.Flags().StringVar(&zoomStr, "zoom", "2:15", "zoom levels as min:max")
	makeTilesCmd.Flags().StringVar(&nodataStr, "nodata", "0,0,0", "nodata values, one per band")
	makeTilesCmd.Flags().BoolVar(&convert, "convert", true, "convert image to byte scale first")
	makeTilesCmd.Flags().BoolVar(&contrast, "contrast", false, "apply contrast stretch before tiling")
	makeTilesCmd.Flags().StringVar(&contrastStr, "contrast-range", "0.02:0.98", "percentile range as lo:hi")
	makeTilesCmd.Flags().BoolVar(&move, "move", false, "build in a staging dir and move into place")
	makeTilesCmd.Flags().StringVar(&tilerArgs, "tiler-args", "", "extra switches appended to the tiler command")

	composeCmd.Flags().StringVar(&bandsStr, "bands", "6,5,4", "band numbers for composition type name")
	composeCmd.Flags().StringVar(&outFolder, "out-dir", ".", "output folder for merged image")

	stretchCmd.Flags().StringVar(&stretchRange, "range", "0.02:0.98", "percentile range as lo:hi")
	stretchCmd.Flags().Float64Var(&stretchNodata, "nodata", 0, "nodata value")
	stretchCmd.Flags().StringVar(&stretchOut, "out", "", "output path (temp file when omitted)")

	thumbsCmd.Flags().StringVar(&thumbsSizeStr, "size", "5,5", "output size in percent as x,y")
	thumbsCmd.Flags().StringVar(&thumbsFormat, "format", "JPEG", "output image format")
	thumbsCmd.Flags().BoolVar(&noScale, "no-scale", false, "skip value scaling")

	footprintCmd.Flags().Float64Var(&fpSimplify, "simplify", 0, "simplification tolerance in source units")
	footprintCmd.Flags().StringVar(&fpType, "type", "wkt", "output format: wkt or json")
	footprintCmd.Flags().IntVar(&fpEpsg, "epsg", 0, "target srid (default 4674)")

	batchCmd.Flags().IntVar(&parallelism, "parallelism", 4, "number of jobs run in parallel")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func parsePair(s string) ([2]float64, error) {
	fs := utils.StrToFloats(s, ":")
	if len(fs) != 2 {
		return [2]float64{}, fmt.Errorf("expected lo:hi pair, got %q", s)
	}
	return [2]float64{fs[0], fs[1]}, nil
}

func parseZoom(s string) (tilerlib.ZoomRange, error) {
	zs := utils.StrToInts(s, ":")
	if len(zs) != 2 {
		return tilerlib.ZoomRange{}, fmt.Errorf("expected min:max zoom, got %q", s)
	}
	return tilerlib.ZoomRange{zs[0], zs[1]}, nil
}

var makeTilesCmd = &cobra.Command{
	Use:   "make-tiles IMAGE",
	Short: "create a tms pyramid and xml descriptor for an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := tilerlib.NewTileJob(args[0], baseLink, outFolder)
		zoom, err := parseZoom(zoomStr)
		if err != nil {
			return err
		}
		job.Zoom = zoom
		job.NoData = utils.StrToFloats(nodataStr, ",")
		job.Convert = convert
		job.Contrast = contrast
		if contrast {
			if job.ContrastRange, err = parsePair(contrastStr); err != nil {
				return err
			}
		}
		job.Move = move
		job.Quiet = quiet
		tmsPath, xmlPath, err := toolbox.MakeTiles(cmd.Context(), job)
		if err != nil {
			return err
		}
		fmt.Printf("Tiles path: %s\nXML file: %s\n", tmsPath, xmlPath)
		return nil
	},
}

var composeCmd = &cobra.Command{
	Use:   "compose OUT BAND...",
	Short: "merge single-band images into an rgb composition",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bands := utils.StrToInts(bandsStr, ",")
		if len(bands) != 3 {
			return fmt.Errorf("expected three band numbers, got %q", bandsStr)
		}
		comp, err := toolbox.CreateComposition(cmd.Context(), args[0], args[1:], outFolder,
			[3]int{bands[0], bands[1], bands[2]}, quiet)
		if err != nil {
			return err
		}
		fmt.Printf("Composition %s (%s, bands %s) at %s\n",
			comp.Name, comp.Type, utils.IntsToStr(bands, ','), comp.Path)
		return nil
	},
}

var stretchCmd = &cobra.Command{
	Use:   "stretch IMAGE",
	Short: "apply a percentile contrast stretch, producing an 8 bit image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rng, err := parsePair(stretchRange)
		if err != nil {
			return err
		}
		out, err := toolbox.ContrastStretch(cmd.Context(), args[0], stretchOut, rng, stretchNodata)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var thumbsCmd = &cobra.Command{
	Use:   "thumbs IMAGE OUTPUT",
	Short: "create a downscaled preview of an image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		size := utils.StrToInts(thumbsSizeStr, ",")
		if len(size) != 2 {
			return fmt.Errorf("expected x,y size, got %q", thumbsSizeStr)
		}
		out, err := toolbox.Thumbs(cmd.Context(), args[0], args[1],
			[2]int{size[0], size[1]}, thumbsFormat, !noScale, quiet)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var footprintCmd = &cobra.Command{
	Use:   "footprint IMAGE",
	Short: "extract the valid-data footprint of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := toolbox.GenerateFootprint(cmd.Context(), args[0], fpSimplify, fpType, fpEpsg)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch MANIFEST.yaml",
	Short: "run a manifest of make-tiles jobs on a worker pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var jobs []tilerlib.TileJob
		if err = yaml.Unmarshal(data, &jobs); err != nil {
			return fmt.Errorf("parse manifest: %w", err)
		}
		ctx := cmd.Context()
		// 并发任务按输出目录串行化，避免同目录的切片互相踩踏
		outLock := utils.NewPathLock()
		pool := gobs.NewPool(parallelism)
		batch := pool.Batch()
		for i := range jobs {
			job := jobs[i]
			batch.Submit(func() error {
				unlock := outLock.Lock(job.OutputFolder)
				defer unlock()
				_, _, e := toolbox.MakeTiles(ctx, job)
				if e != nil {
					return fmt.Errorf("job %s: %w", job.ImagePath, e)
				}
				return nil
			})
		}
		if err = batch.Wait(); err != nil {
			for _, e := range multierr.Errors(err) {
				fmt.Fprintln(os.Stderr, e)
			}
			return fmt.Errorf("batch finished with failures")
		}
		return nil
	},
}
