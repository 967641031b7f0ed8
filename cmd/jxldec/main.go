/*
NAME
  jxldec - decodes JPEG XL codestreams to raw frame dumps.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// jxldec is an informative CLI driver over the decoding core (spec.md
// §6 "CLI surface is informative only, not part of the wire contract").
// Given a single file it decodes it once; given a directory with
// -watch it decodes each .jxl file as it appears, using fsnotify to
// learn about new files instead of polling.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/jxl"
	"github.com/ausocean/jxl/bits"
	"github.com/ausocean/utils/logging"
)

const progName = "jxldec"

func main() {
	var (
		input    = flag.String("input", "", "path to a .jxl file, or a directory when -watch is set")
		output   = flag.String("output", "", "directory to write decoded frames to (default: alongside input)")
		watch    = flag.Bool("watch", false, "watch -input as a directory and decode new .jxl files as they appear")
		logPath  = flag.String("log", "", "log file path (rotated with lumberjack); empty logs to stderr only")
		logLevel = flag.Int("level", int(logging.Info), "minimum log level to emit")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, progName+": -input is required")
		os.Exit(2)
	}

	log := newLogger(*logPath, int8(*logLevel))

	if *watch {
		if err := watchDir(*input, *output, log); err != nil {
			log.Log(logging.Fatal, progName+": watch failed", "error", err.Error())
		}
		return
	}

	if err := decodeFile(*input, *output, log); err != nil {
		log.Log(logging.Fatal, progName+": decode failed", "error", err.Error())
	}
}

// newLogger builds a Logger backed by lumberjack for rotation when
// logPath is set, matching the rotation policy used by
// github.com/ausocean/av/revid's file-backed loggers.
func newLogger(logPath string, level int8) jxl.Logger {
	var w io.Writer = os.Stderr
	if logPath != "" {
		w = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	return logging.New(level, w, true)
}

// decodeFile decodes one codestream file, writing each decoded frame's
// planar YXB float data to <outDir>/<basename>.frameNNN.raw.
func decodeFile(path, outDir string, log jxl.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	br := bits.NewReader(data)

	headers, err := jxl.ParseHeaders(br)
	if err != nil {
		return err
	}

	driver := jxl.NewRenderDriver(headers, br)
	driver.SetLogger(log)

	frames, err := driver.DecodeAll()
	if err != nil && len(frames) == 0 {
		return err
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, fr := range frames {
		if fr.Canvas == nil {
			continue
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("%s.frame%03d.raw", base, i))
		if err := writeCanvas(outPath, fr.Canvas); err != nil {
			return err
		}
		log.Log(logging.Info, progName+": wrote frame", "path", outPath)
	}
	return nil
}

// writeCanvas dumps a canvas's three planes as consecutive
// little-endian float32 arrays.
func writeCanvas(path string, c *jxl.Canvas) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, plane := range [][]float32{c.Y, c.X, c.B} {
		buf := make([]byte, 4*len(plane))
		for i, v := range plane {
			bits32 := math.Float32bits(v)
			buf[4*i+0] = byte(bits32)
			buf[4*i+1] = byte(bits32 >> 8)
			buf[4*i+2] = byte(bits32 >> 16)
			buf[4*i+3] = byte(bits32 >> 24)
		}
		if _, err := out.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// watchDir decodes every existing .jxl file in dir, then uses fsnotify
// to decode each new one as it's created, running until interrupted.
func watchDir(dir, outDir string, log jxl.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jxl") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := decodeFile(path, outDir, log); err != nil {
			log.Log(logging.Warning, progName+": decode failed", "path", path, "error", err.Error())
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	log.Log(logging.Info, progName+": watching for new files", "dir", dir)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || !strings.HasSuffix(event.Name, ".jxl") {
				continue
			}
			if err := decodeFile(event.Name, outDir, log); err != nil {
				log.Log(logging.Warning, progName+": decode failed", "path", event.Name, "error", err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Log(logging.Warning, progName+": watcher error", "error", err.Error())
		}
	}
}
