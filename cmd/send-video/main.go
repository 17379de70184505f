package main

import (
	"os"

	"works_uploader/internal/media"
	"works_uploader/internal/sendcli"
)

func main() {
	os.Exit(sendcli.Main(media.KindVideo))
}
