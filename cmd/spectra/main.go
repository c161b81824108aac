// Command spectra inspects and fills spectroscopy dataset stores.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/geogaslab/spectra/dataset"
	"github.com/geogaslab/spectra/errs"
	_ "github.com/geogaslab/spectra/flyspec"
	"github.com/geogaslab/spectra/format"
)

var log = logrus.New()

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "spectra",
		Short: "Inspect and fill volcanic-gas spectroscopy dataset stores",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(infoCmd(), importCmd())
	return root
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <store>",
		Short: "Summarize a dataset store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dataset.Open(args[0])
			if err != nil {
				return err
			}
			defer d.Close()

			fmt.Printf("store:    %s\n", d.Path())
			fmt.Printf("created:  %s\n", d.CreatedAt().Format(time.RFC3339))
			fmt.Printf("tags:     %v\n", d.RegisteredTags())
			for _, kind := range format.Kinds() {
				fmt.Printf("%-14s %d\n", kind.String()+":", d.Count(kind))
			}

			for f := range d.Fluxes() {
				vals := f.Value()
				if len(vals) == 0 {
					continue
				}
				fmt.Printf("flux %016x: n=%d min=%.3g max=%.3g mean=%.3g kg/s\n",
					f.ResourceID(), len(vals),
					floats.Min(vals), floats.Max(vals),
					floats.Sum(vals)/float64(len(vals)))
			}
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var (
		ftype     string
		timeshift time.Duration
		tags      []string
	)
	cmd := &cobra.Command{
		Use:   "import <store> <logfile>",
		Short: "Import an instrument log into a dataset store",
		Long: `Import parses a foreign-format instrument log, links the staged
buffers together and commits them. The store is created when it does not
exist yet.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, logfile := args[0], args[1]

			d, err := dataset.Open(store)
			if errors.Is(err, errs.ErrStoreNotFound) {
				d, err = dataset.Create(store)
				log.Debugf("created store %s", store)
			}
			if err != nil {
				return err
			}
			defer d.Close()

			bufs, err := d.ReadFile(logfile, ftype, dataset.WithTimeshift(timeshift))
			if err != nil {
				return err
			}

			for _, tag := range tags {
				if err := d.RegisterTags(tag); err != nil {
					log.Debugf("tag %q: %v", tag, err)
				}
			}

			rawBuf, _ := bufs["RawDataBuffer"].(*dataset.RawDataBuffer)
			concBuf, _ := bufs["ConcentrationBuffer"].(*dataset.ConcentrationBuffer)
			typeBuf, _ := bufs["RawDataTypeBuffer"].(*dataset.RawDataTypeBuffer)
			if rawBuf == nil {
				return fmt.Errorf("format %q yields no raw data", ftype)
			}

			if typeBuf != nil {
				typeBuf.Tags = tags
				rdt, err := d.New(typeBuf)
				if err != nil {
					return err
				}
				rawBuf.Type = rdt.(*dataset.RawDataType)
			}

			rawBuf.Tags = tags
			raw, err := d.New(rawBuf)
			if err != nil {
				return err
			}
			log.Infof("committed rawdata %016x with %d samples",
				raw.ResourceID(), raw.(*dataset.RawData).SampleCount())

			if concBuf != nil {
				concBuf.RawData = raw.(*dataset.RawData)
				concBuf.Tags = tags
				conc, err := d.New(concBuf)
				if err != nil {
					return err
				}
				log.Infof("committed concentration %016x with %d values",
					conc.ResourceID(), len(conc.(*dataset.Concentration).Value()))
			}
			return d.Close()
		},
	}
	cmd.Flags().StringVarP(&ftype, "format", "f", "flyspec", "input log format")
	cmd.Flags().DurationVar(&timeshift, "timeshift", 0, "offset added to parsed timestamps")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tags attached to the imported elements")
	return cmd
}
