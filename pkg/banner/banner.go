package banner

import (
	"fmt"
	"strings"
)

const banner = `
 ██████╗ █████╗ ██╗      ██████╗██████╗  ██████╗  █████╗ ██████╗ ██████╗
██╔════╝██╔══██╗██║     ██╔════╝██╔══██╗██╔═══██╗██╔══██╗██╔══██╗██╔══██╗
██║     ███████║██║     ██║     ██████╔╝██║   ██║███████║██████╔╝██║  ██║
██║     ██╔══██║██║     ██║     ██╔══██╗██║   ██║██╔══██║██╔══██╗██║  ██║
╚██████╗██║  ██║███████╗╚██████╗██████╔╝╚██████╔╝██║  ██║██║  ██║██████╔╝
 ╚═════╝╚═╝  ╚═╝╚══════╝ ╚═════╝╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝
`

// Print writes the startup banner with the effective runtime settings.
func Print(addr, dbPath string, sources []string, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if len(sources) > 0 {
		fmt.Printf("Config sources: %s\n", strings.Join(sources, ", "))
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("GET    /v1/messages                  - Poll the full board")
	fmt.Println("POST   /v1/messages                  - Post a message (JSON: name, message)")
	fmt.Println("PUT    /v1/messages/{id}             - Edit own message (JSON: name, message)")
	fmt.Println("DELETE /v1/messages/{id}?name=<name> - Delete own message")
	fmt.Println("POST   /v1/messages/{id}/reactions   - Toggle a reaction (JSON: reaction, name)")
	fmt.Println("DELETE /v1/messages                  - Clear the board")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/v1/messages' -d '{\"name\":\"Al\",\"message\":\"hi\"}'\n", addr)
	fmt.Printf("curl 'http://localhost%s/v1/messages'\n", addr)
}
