package udp

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/denoise-go/denoise-go/internal/denoise"
	"github.com/denoise-go/denoise-go/internal/schema"
)

// Server answers denoise request datagrams. Requests are handled one at a
// time, matching the blocking single-request behavior of the real service.
type Server struct {
	conn   net.PacketConn
	den    denoise.Denoiser
	logger zerolog.Logger
}

// NewServer binds the listen address.
func NewServer(listen string, den denoise.Denoiser, logger zerolog.Logger) (*Server, error) {
	conn, err := net.ListenPacket("udp", listen)
	if err != nil {
		return nil, err
	}
	return &Server{conn: conn, den: den, logger: logger}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Serve receives datagrams until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	buf := make([]byte, MaxDatagramSize)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		s.handle(ctx, buf[:n], addr)
	}
}

func (s *Server) handle(ctx context.Context, data []byte, addr net.Addr) {
	inputFile, outputFile, err := ParseRequest(data)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("client", addr).Msg("Dropping malformed datagram")
		return
	}

	s.logger.Info().
		Str("input", inputFile).
		Str("output", outputFile).
		Stringer("client", addr).
		Msg("Denoise request")

	start := time.Now()
	err = s.den.Denoise(ctx, inputFile, outputFile, schema.DefaultSamplerate)
	elapsed := time.Since(start)

	var resp []byte
	if err != nil {
		resp = EncodeResponse(1, err.Error())
		s.logger.Error().Err(err).Str("input", inputFile).Msg("Denoise failed")
	} else {
		resp = EncodeResponse(0, "success")
		s.logger.Info().
			Str("input", inputFile).
			Dur("elapsed", elapsed).
			Msg("Denoise complete")
	}

	if _, err := s.conn.WriteTo(resp, addr); err != nil {
		s.logger.Error().Err(err).Stringer("client", addr).Msg("Failed to send response")
	}
}
