package logger

import (
	"flag"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

// Verbosity levels accepted as the trailing argument of Infoln/Infof.
const (
	VerbosityLevelInfo  = 0
	VerbosityLevelDebug = 2
)

// Init wires klog into the process. Passing the root command's persistent
// flag set exposes klog's -v flag on the CLI.
func Init(fs *pflag.FlagSet) {
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	_ = klogFlags.Set("logtostderr", "true")
	_ = klogFlags.Set("skip_headers", "true")
	_ = klogFlags.Set("skip_log_headers", "true")

	if fs != nil {
		if v := klogFlags.Lookup("v"); v != nil {
			fs.AddGoFlag(v)
		}
	}
}

func Flush() {
	klog.Flush()
}

func Warningln(msg string) {
	klog.Warningln("WARNING: ", msg)
}

func Warningf(msg string, args ...interface{}) {
	klog.Warningf("WARNING: "+msg, args...)
}

func Errorln(msg string) {
	klog.Errorln("ERROR: ", msg)
}

func Errorf(msg string, args ...interface{}) {
	klog.Errorf("ERROR: "+msg, args...)
}

func Infoln(msg string, verbose ...int) {
	v := VerbosityLevelInfo
	if len(verbose) > 0 {
		v = verbose[0]
	}
	klog.V(klog.Level(v)).Infoln(msg)
}

func Infof(msg string, args ...interface{}) {
	v := VerbosityLevelInfo
	// The last arg is an int, used for verbosity level
	if len(args) > 0 {
		if verbosity, ok := args[len(args)-1].(int); ok {
			v = verbosity
			args = args[:len(args)-1] // remove verbosity argument
		}
	}
	klog.V(klog.Level(v)).Infof(msg, args...)
}
