// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command msgpdump reads a stream of MessagePack values from a file or
// stdin and prints a one-line trace per value: its type, size where
// applicable, and the decoded value for scalars.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"code.hybscloud.com/msgpack"
)

func main() {
	path := flag.String("f", "", "path to a file containing MessagePack values (default: stdin)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	in := io.Reader(os.Stdin)
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			logger.Error("open input", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	src := msgpack.NewSource(in, msgpack.WithSourceLogger(msgpack.SlogLogger{L: logger}))
	defer src.Close()
	rd := msgpack.NewReader(src)

	if err := dump(rd, os.Stdout); err != nil {
		logger.Error("dump failed", "error", err)
		os.Exit(1)
	}
}

func dump(rd *msgpack.Reader, out io.Writer) error {
	for {
		typ, err := rd.NextType()
		if err != nil {
			if errors.Is(err, msgpack.ErrEndOfInput) {
				return nil
			}
			return err
		}
		if err := dumpValue(rd, typ, out); err != nil {
			return err
		}
	}
}

func dumpValue(rd *msgpack.Reader, typ msgpack.Type, out io.Writer) error {
	switch typ {
	case msgpack.TypeNil:
		if err := rd.ReadNil(); err != nil {
			return err
		}
		fmt.Fprintln(out, "nil")
	case msgpack.TypeBoolean:
		v, err := rd.ReadBool()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bool %v\n", v)
	case msgpack.TypeInteger:
		format, err := rd.NextFormat()
		if err != nil {
			return err
		}
		if format == 0xcf || format == 0xce || format == 0xcd || format == 0xcc {
			v, err := rd.ReadUint64()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "uint %d\n", v)
		} else {
			v, err := rd.ReadInt64()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "int %d\n", v)
		}
	case msgpack.TypeFloat:
		format, err := rd.NextFormat()
		if err != nil {
			return err
		}
		if format == 0xca {
			v, err := rd.ReadFloat32()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "float32 %v\n", v)
		} else {
			v, err := rd.ReadFloat64()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "float64 %v\n", v)
		}
	case msgpack.TypeString:
		v, err := rd.ReadString()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "string(%d) %q\n", len(v), v)
	case msgpack.TypeBinary:
		n, err := rd.ReadBinaryHeader()
		if err != nil {
			return err
		}
		buf := make([]byte, n)
		if err := rd.ReadPayload(buf); err != nil {
			return err
		}
		fmt.Fprintf(out, "binary(%d) %x\n", n, buf)
	case msgpack.TypeArray:
		n, err := rd.ReadArrayHeader()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "array(%d)\n", n)
		return rd.Skip(n)
	case msgpack.TypeMap:
		n, err := rd.ReadMapHeader()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "map(%d)\n", n)
		return rd.Skip(2 * n)
	case msgpack.TypeExtension:
		extType, n, err := rd.ReadExtensionHeader()
		if err != nil {
			return err
		}
		payload := make([]byte, n)
		if err := rd.ReadPayload(payload); err != nil {
			return err
		}
		fmt.Fprintf(out, "extension(type=%d, len=%d)\n", extType, n)
	}
	return nil
}
