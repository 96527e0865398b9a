package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/driver"
	"github.com/fwojciec/contentobj/extract"
	cohttp "github.com/fwojciec/contentobj/http"
	"github.com/fwojciec/contentobj/readability"
	cslog "github.com/fwojciec/contentobj/slog"
	"github.com/fwojciec/contentobj/trafilatura"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	src, err := c.source(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", contentobj.ErrorMessage(err))
		return err
	}

	var opts []extract.Option
	if cleaner := c.cleaner(); cleaner != nil {
		opts = append(opts, extract.WithCleaner(cslog.NewLoggingCleaner(cleaner, deps.Logger)))
	}
	e := extract.NewExtractor(deps.Detector, deps.Parser, deps.Analyzer, opts...)

	res, err := e.Extract(deps.Ctx, src, c.options())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", contentobj.ErrorMessage(err))
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", w)
	}

	if c.Text {
		if res.PDF != nil {
			fmt.Fprintln(deps.Stdout, res.PDF.Text(!c.NoPageBreaks))
			return nil
		}
		fmt.Fprintln(deps.Stdout, contentobj.PlainText(res.Nodes))
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	for _, n := range res.Nodes {
		if err := enc.Encode(contentobj.ToDictTree(n)); err != nil {
			return fmt.Errorf("failed to write node: %w", err)
		}
	}
	return nil
}

// source opens the command's source. Anything that is neither "-" nor a
// URL is read as a local file, so missing paths report ENOTFOUND.
func (c *ExtractCmd) source(deps *Dependencies) (*driver.Source, error) {
	var src *driver.Source
	switch {
	case c.Source == "-":
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return nil, contentobj.Errorf(contentobj.EINVALID, "failed to read stdin: %v", err)
		}
		src = driver.NewSource("stdin", deps.Drivers.InlineDriver(data, nil))
	case cohttp.CanHandle(c.Source):
		src = driver.NewSource(c.Source, deps.Drivers.URLDriver(c.Source))
	default:
		src = driver.NewSource(filepath.Base(c.Source), deps.Drivers.FileDriver(c.Source))
	}

	logged := driver.NewSource(src.Name(), cslog.NewLoggingDriver(src.Driver(), c.Source, deps.Logger))
	if c.MediaType != "" {
		logged = logged.WithMediaType(c.MediaType)
	}
	return logged, nil
}

func (c *ExtractCmd) cleaner() contentobj.Cleaner {
	var pageURL *url.URL
	if cohttp.CanHandle(c.Source) {
		pageURL, _ = url.Parse(c.Source)
	}
	switch c.Clean {
	case "readability":
		return readability.NewCleaner(readability.WithPageURL(pageURL))
	case "trafilatura":
		topts := []trafilatura.Option{trafilatura.WithPageURL(pageURL)}
		if !c.NoLinks {
			topts = append(topts, trafilatura.WithLinks())
		}
		if !c.NoImages {
			topts = append(topts, trafilatura.WithImages())
		}
		return trafilatura.NewCleaner(topts...)
	}
	return nil
}

func (c *ExtractCmd) options() extract.Options {
	opts := extract.DefaultOptions()
	opts.Parse.BaseURL = c.BaseURL
	opts.Parse.ExtractScripts = !c.NoScripts
	opts.Parse.ExtractStyles = !c.NoStyles
	opts.Parse.ExtractImages = !c.NoImages
	opts.Parse.ExtractLinks = !c.NoLinks
	opts.Parse.ResolveRelativeURLs = !c.NoResolve
	opts.PDF.MaxPages = c.MaxPages
	opts.PDF.DetectSections = c.Sections
	opts.PDF.IncludePageBreaks = !c.NoPageBreaks
	opts.Clean = c.Clean != "none"
	opts.AssignIDs = c.IDs
	return opts
}
