package main

import (
	"fmt"

	"github.com/any-hub/cachedir/internal/version"
)

// usage 输出帮助文本，--version 同样使用它，末尾带有版本号。
func usage(binary string) string {
	return fmt.Sprintf(`Usage:
%[1]s --help               Print this help message
%[1]s --version            Print the application version
%[1]s is-tagged DIRECTORY  Check if the directory is tagged or not
%[1]s state DIRECTORY      Print the CACHEDIR.TAG state of the directory
%[1]s tag DIRECTORY        Add CACHEDIR.TAG to an existing directory
%[1]s ensure DIRECTORY     Add CACHEDIR.TAG unless the directory already has one
%[1]s mkdir DIRECTORY      Atomically create a directory tagged with CACHEDIR.TAG
%[1]s serve [--config PATH] [--check-config]
                            Serve the cache namespace HTTP API

Application version: %[2]s
`, binary, version.Version)
}
