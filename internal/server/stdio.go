package server

import (
	"context"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"
)

type stdioReadWriteCloser struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	rerr := s.reader.Close()
	werr := s.writer.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

// ServeStdio answers requests on stdin/stdout until the client closes
// the stream or ctx is cancelled. Messages are newline-delimited JSON
// objects.
func (s *Server) ServeStdio(ctx context.Context) error {
	rwc := &stdioReadWriteCloser{reader: os.Stdin, writer: os.Stdout}
	return s.Serve(ctx, rwc)
}

// Serve runs one connection to completion.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.PlainObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, s.Handler())
	defer conn.Close()

	log.Info("serving", "server", s.info.Name, "version", s.info.Version)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-conn.DisconnectNotify():
		log.Info("client disconnected")
		return nil
	}
}
