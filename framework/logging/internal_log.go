// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ComponentField names the entry field printed in parentheses after the level.
const ComponentField = "component"

// SetOutput configures logging output for standard loggers.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
	logrus.SetOutput(w)
}

// SetLogLevel parses logLevel, applies it to the standard logger and installs
// the InternalFormatter.
func SetLogLevel(logLevel string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&InternalFormatter{})
	return nil
}

// InternalFormatter renders entries as single plain text lines.
type InternalFormatter struct{}

// Format implements logrus.Formatter.
func (f *InternalFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	b.WriteString(entry.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	fmt.Fprintf(b, " [%s]", strings.ToUpper(entry.Level.String()))
	if component, ok := entry.Data[ComponentField]; ok {
		fmt.Fprintf(b, " (%v)", component)
	}
	b.WriteByte(' ')
	b.WriteString(strings.TrimRight(entry.Message, "\n"))

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != ComponentField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

var _ logrus.Formatter = (*InternalFormatter)(nil)

// Since formats the time elapsed since start in milliseconds, for log fields.
func Since(start time.Time) string {
	return fmt.Sprintf("%.3fms", float64(time.Since(start))/float64(time.Millisecond))
}
