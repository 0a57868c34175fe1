// Tideland Go Workpool - Connection Handling
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package server

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

const (
	// requestSize is the number of bytes read from a request.
	requestSize = 512

	// readTimeout limits the wait for a request.
	readTimeout = 10 * time.Second

	statusOK       = "HTTP/1.1 200 OK"
	statusNotFound = "HTTP/1.1 404 NOT FOUND"
)

var (
	requestRoot  = []byte("GET / HTTP/1.1\r\n")
	requestSleep = []byte("GET /sleep HTTP/1.1\r\n")
)

//go:embed pages/*.html
var pages embed.FS

var (
	helloPage    = mustPage("pages/hello.html")
	notFoundPage = mustPage("pages/404.html")
)

// connection is the task handling one accepted connection.
type connection struct {
	id         string
	conn       net.Conn
	sleepDelay time.Duration
	logger     *zap.SugaredLogger
}

// Execute reads the request, writes the response, and closes the
// connection.
func (c *connection) Execute() {
	defer c.conn.Close()

	request, err := c.read()
	if err != nil {
		c.logger.Warnw("failed to read request", "request", c.id, "error", err)
		return
	}

	status, page := c.route(request)
	if err := c.write(status, page); err != nil {
		c.logger.Warnw("failed to write response", "request", c.id, "error", err)
		return
	}

	c.logger.Infow("request handled",
		"request", c.id,
		"remote", c.conn.RemoteAddr().String(),
		"line", requestLine(request),
		"status", status)
}

// read reads the first bytes of the request.
func (c *connection) read() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, err
	}
	buffer := make([]byte, requestSize)
	n, err := c.conn.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buffer[:n], nil
}

// route selects status and page by the request prefix.
func (c *connection) route(request []byte) (string, []byte) {
	switch {
	case bytes.HasPrefix(request, requestRoot):
		return statusOK, helloPage
	case bytes.HasPrefix(request, requestSleep):
		time.Sleep(c.sleepDelay)
		return statusOK, helloPage
	default:
		return statusNotFound, notFoundPage
	}
}

// write sends the response through a buffered writer.
func (c *connection) write(status string, page []byte) error {
	w := bufio.NewWriter(c.conn)
	fmt.Fprintf(w, "%s\r\nContent-Length: %d\r\n\r\n", status, len(page))
	w.Write(page)
	return w.Flush()
}

// requestLine returns the first line of the request for logging.
func requestLine(request []byte) string {
	line, _, _ := bytes.Cut(request, []byte("\r\n"))
	return string(line)
}

// mustPage reads an embedded page.
func mustPage(name string) []byte {
	page, err := pages.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("server: missing page %q: %v", name, err))
	}
	return page
}

// EOF
