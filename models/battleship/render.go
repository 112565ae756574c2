package battleship

import (
	"bufio"
	"fmt"
	"io"
)

// Render writes a text view of the board. It only reads cell labels.
func Render(w io.Writer, board *Board, reveal bool) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("   ")
	for col := uint8(1); col <= BoardSize; col++ {
		bw.WriteByte(' ')
		bw.WriteByte(Address{Col: col, Row: 1}.Letter())
	}
	bw.WriteByte('\n')

	for row := uint8(1); row <= BoardSize; row++ {
		fmt.Fprintf(bw, "%2d ", row)
		for col := uint8(1); col <= BoardSize; col++ {
			bw.WriteByte(' ')
			bw.WriteRune(board.Label(Address{Col: col, Row: row}, reveal))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
