// Command geminid hosts one or more domains' content directories over
// Gemini, each domain with its own TLS certificate, dispatching by the Host
// component of the request URI.
package main

import (
	"crypto/tls"
	"crypto/x509"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/havenwire/gemini"
	"github.com/havenwire/gemini/servedir"
)

var version = ""

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "serve":
		serve(os.Args[2:])
		return
	case "version", "--version":
		fmt.Println(version)
		return
	}
	usage()
}

func usage() {
	fmt.Println(`usage: geminid <command> [parameters]

commands:
  serve     serve one or more domains' content directories
  version   print the build version

examples:
  geminid serve --domain=example.com --certFile=server.crt --keyFile=server.key --path=.
  geminid serve --config=geminid.toml`)
	os.Exit(1)
}

func serve(args []string) {
	cmd := flag.NewFlagSet("serve", flag.ExitOnError)
	certFileFlag := cmd.String("certFile", "", "(required without --config) Path to a server certificate file.")
	keyFileFlag := cmd.String("keyFile", "", "(required without --config) Path to a server key file.")
	domainFlag := cmd.String("domain", "localhost", "The domain to listen on.")
	pathFlag := cmd.String("path", defaultPath, "Path containing content to serve.")
	portFlag := cmd.Int("port", defaultPort, "Port to listen on.")
	baseTimeoutFlag := cmd.Duration("baseTimeout", defaultBaseTimeout, "Request phase and response header phase deadline, e.g. 1s.")
	complexBodyTimeoutFlag := cmd.Duration("complexBodyTimeout", defaultComplexBodyTimeout, "Additional deadline for non-plain-text response bodies, e.g. 30s.")
	configPathFlag := cmd.String("config", "", "Path to a TOML config file describing one or more domains.")
	helpFlag := cmd.Bool("help", false, "Print help and exit.")

	if err := cmd.Parse(args); err != nil || *helpFlag {
		cmd.PrintDefaults()
		return
	}

	config := newServerConfig()
	if *configPathFlag != "" {
		r, err := os.Open(*configPathFlag)
		if err != nil {
			fmt.Printf("error: invalid config path: %v\n", err)
			os.Exit(1)
		}
		defer r.Close()
		config, err = loadConfigFile(r)
		if err != nil {
			fmt.Printf("error: invalid config: %v\n", err)
			os.Exit(1)
		}
	} else {
		if *certFileFlag == "" || *keyFileFlag == "" {
			fmt.Println("error: require certFile and keyFile flags, or a config file")
			fmt.Println()
			cmd.PrintDefaults()
			os.Exit(1)
		}
		config.Port = *portFlag
		config.BaseTimeout = *baseTimeoutFlag
		config.ComplexBodyTimeout = *complexBodyTimeoutFlag
		config.Domain[*domainFlag] = domainConfig{
			Path:         *pathFlag,
			CertFilePath: *certFileFlag,
			KeyFilePath:  *keyFileFlag,
		}
	}

	certificates := make([]tls.Certificate, 0, len(config.Domain))
	byHost := make(map[string]gemini.Handler, len(config.Domain))
	for domain, dc := range config.Domain {
		keyPair, err := tls.LoadX509KeyPair(dc.CertFilePath, dc.KeyFilePath)
		if err != nil {
			fmt.Printf("error: failed to load certificate for domain %q: %v\n", domain, err)
			os.Exit(1)
		}
		if keyPair.Leaf == nil {
			leaf, err := x509.ParseCertificate(keyPair.Certificate[0])
			if err != nil {
				fmt.Printf("error: failed to parse certificate for domain %q: %v\n", domain, err)
				os.Exit(1)
			}
			keyPair.Leaf = leaf
		}
		certificates = append(certificates, keyPair)
		byHost[strings.ToLower(domain)] = servedir.Handler(dc.Path)
	}

	server := &gemini.Server{
		Addr:               fmt.Sprintf(":%d", config.Port),
		Certificates:       certificates,
		Handler:            hostDispatchHandler(byHost),
		Logger:             gemini.NewDefaultLogger(),
		BaseTimeout:        config.BaseTimeout,
		ComplexBodyTimeout: config.ComplexBodyTimeout,
		MaxConnections:     config.MaxConnections,
	}
	if err := server.ListenAndServe(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

// hostDispatchHandler routes a request to the handler registered for its
// URI's host, giving a single *gemini.Server the same "multiple virtual
// hosts on one listener" capability the certificate chain already provides
// at the TLS layer via SNI.
func hostDispatchHandler(byHost map[string]gemini.Handler) gemini.Handler {
	return gemini.HandlerFunc(func(r *gemini.Request) *gemini.Response {
		h, ok := byHost[strings.ToLower(r.URI().Host())]
		if !ok {
			return gemini.ResponseNotFound()
		}
		r.SetTrailingSegments(r.PathSegments())
		return h.ServeGemini(r)
	})
}
