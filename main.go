package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args))
}

// run 执行 CLI 并输出结果信息：退出码为 0 时写 stdout，否则写 stderr，返回退出码方便测试。
func run(args []string) int {
	code, message := app(args)
	if message != "" {
		out := stdOut
		if code != 0 {
			out = stdErr
		}
		fmt.Fprint(out, strings.TrimRight(message, "\n")+"\n")
	}
	return code
}

// app 按位置参数分发子命令，返回退出码与需要展示的信息。
func app(args []string) (int, string) {
	binary := "cachedir"
	if len(args) > 0 {
		binary = args[0]
		args = args[1:]
	}
	if len(args) == 0 {
		return 1, usage(binary)
	}

	switch args[0] {
	case "--help", "--version":
		if len(args) == 1 {
			return 0, usage(binary)
		}
	case "serve":
		return serve(args[1:])
	default:
		if cmd, ok := dirCommands[args[0]]; ok && len(args) == 2 {
			return cmd(args[1])
		}
	}
	return 1, usage(binary)
}
