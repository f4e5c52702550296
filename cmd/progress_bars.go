/***************************************************************
 *
 * Copyright (C) 2026, Pelican Project, Morgridge Institute for Research
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you
 * may not use this file except in compliance with the License.  You may
 * obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 ***************************************************************/

package main

import (
	"context"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"

	"github.com/pelicanplatform/stsctl/transfer"
)

// deleteProgress shows a bar while paced deletions run. It is inert when
// stderr is not a terminal, so scripts and tests see only the logs.
type deleteProgress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	logOut    io.Writer
}

// progressOutput is where the bar is drawn; nil disables the bar.
var progressOutput = func() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return os.Stderr
	}
	return nil
}

func newDeleteProgress(ctx context.Context, total int) *deleteProgress {
	out := progressOutput()
	if out == nil {
		return &deleteProgress{}
	}

	container := mpb.NewWithContext(ctx, mpb.WithOutput(out))
	bar := container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Deleting jobs", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "Done!"),
		),
	)
	// Route log lines through the container so they do not tear the bar
	logOut := log.StandardLogger().Out
	log.SetOutput(container)
	log.Debugln("Launch delete progress display")
	return &deleteProgress{container: container, bar: bar, logOut: logOut}
}

func (dp *deleteProgress) increment(_ transfer.Job) {
	if dp.bar != nil {
		dp.bar.Increment()
	}
}

func (dp *deleteProgress) shutdown() {
	if dp.container == nil {
		return
	}
	if !dp.bar.Completed() {
		dp.bar.Abort(false)
	}
	dp.container.Wait()
	log.SetOutput(dp.logOut)
}
