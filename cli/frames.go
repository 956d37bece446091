package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/gear6io/mcwire/server/protocols/java"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
	"github.com/spf13/cobra"
)

var framesCmd = &cobra.Command{
	Use:   "frames [file]",
	Short: "Decode a captured serverbound byte stream",
	Long: `Decode a captured serverbound stream of Java Edition frames.

The input is hex text, whitespace allowed, read from the file or from stdin
when the file is "-" or missing. Frames are decoded in order, tracking the
connection state the way the server does.

Examples:
  echo "0f001b093132372e302e302e31303902" | mcwire frames
  mcwire frames capture.hex`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFrames,
}

func init() {
	rootCmd.AddCommand(framesCmd)
}

// decodedFrame is one row of frames output.
type decodedFrame struct {
	State  protocol.ConnectionState
	ID     protocol.PacketID
	Length int
	Name   string
	Fields string
}

// parseHexCapture strips whitespace from hex text and decodes it.
func parseHexCapture(text string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	return hex.DecodeString(compact)
}

// decodeCapture replays data through a frame reader and state machine. The
// frames decoded before a failure are returned with the error.
func decodeCapture(data []byte) ([]decodedFrame, error) {
	registry := packets.Serverbound()
	machine := java.NewStateMachine()
	reader := protocol.NewFrameReader(0)
	reader.Feed(data)

	var out []decodedFrame
	for {
		frame, err := reader.Next()
		if err != nil {
			return out, err
		}
		if frame == nil {
			return out, reader.Close()
		}

		state := machine.Current()
		pkt, err := registry.Decode(state, frame.Info.ID, frame.Payload)
		if err != nil {
			return out, err
		}
		if err := machine.Apply(pkt); err != nil {
			return out, err
		}

		out = append(out, decodedFrame{
			State:  state,
			ID:     frame.Info.ID,
			Length: frame.Info.Length,
			Name:   pkt.Name(),
			Fields: formatFields(pkt),
		})
	}
}

func formatFields(p protocol.Packet) string {
	parts := make([]string, 0, len(p.Schema()))
	for _, f := range p.Schema() {
		v := reflect.Indirect(reflect.ValueOf(f.Value)).Interface()
		if s, ok := v.(protocol.String); ok {
			parts = append(parts, fmt.Sprintf("%s=%q", f.Name, string(s)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", f.Name, v))
	}
	return strings.Join(parts, " ")
}

func runFrames(cmd *cobra.Command, args []string) error {
	d := newDisplay(cmd)

	var src io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			d.Failure("Failed to open capture", err)
			return err
		}
		defer f.Close()
		src = f
	}

	text, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	data, err := parseHexCapture(string(text))
	if err != nil {
		d.Failure("Capture is not valid hex", err)
		return err
	}

	frames, decodeErr := decodeCapture(data)
	rows := make([][]string, 0, len(frames))
	for i, f := range frames {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			f.State.String(),
			f.ID.String(),
			fmt.Sprint(f.Length),
			f.Name,
			f.Fields,
		})
	}
	if len(rows) > 0 {
		if err := d.Table([]string{"#", "State", "ID", "Length", "Packet", "Fields"}, rows); err != nil {
			return err
		}
	}

	if decodeErr != nil {
		d.Error("Decoding stopped after %d frames: %v", len(frames), decodeErr)
		return decodeErr
	}
	d.Success("Decoded %d frames", len(frames))
	return nil
}
