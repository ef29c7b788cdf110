package catalog

import "github.com/log-sentinel/backend/internal/models"

// Default returns the built-in signature catalog. Order matters: a line
// mentioning both "admin" and "injection" classifies as the earlier
// category, so the higher-priority attack classes are declared first.
func Default() *Catalog {
	c, err := New(defaultSignatures())
	if err != nil {
		// The built-in catalog is static; a validation failure is a
		// programming error.
		panic(err)
	}
	return c
}

func defaultSignatures() []models.AttackSignature {
	return []models.AttackSignature{
		{
			Category: "injection",
			Patterns: []string{
				"sql injection", "union select", "drop table",
				"' or 1=1", "or 1=1", "injection attempt", "xp_cmdshell",
			},
			Severity:    models.SeverityCritical,
			Context:     []string{"database", "web application"},
			Impact:      []string{"data exfiltration", "data destruction"},
			Mitigations: []string{"Use parameterized queries for all database access", "Validate and sanitize user input", "Apply least-privilege database accounts"},
		},
		{
			Category: "malware",
			Patterns: []string{
				"malware", "trojan", "ransomware", "virus detected", "backdoor",
			},
			Severity:    models.SeverityCritical,
			Context:     []string{"endpoint", "file server"},
			Impact:      []string{"system compromise", "data loss"},
			Mitigations: []string{"Isolate the affected host and run a full antivirus scan", "Restore from known-good backups", "Review execution policies"},
		},
		{
			Category: "ddos",
			Patterns: []string{
				"ddos", "syn flood", "denial of service", "connection flood", "amplification attack",
			},
			Severity:    models.SeverityCritical,
			Context:     []string{"network edge", "load balancer"},
			Impact:      []string{"service outage", "resource exhaustion"},
			Mitigations: []string{"Enable rate limiting and SYN cookies at the network edge", "Engage upstream DDoS mitigation", "Scale out ingress capacity"},
		},
		{
			Category: "privilege_escalation",
			Patterns: []string{
				"privilege escalation", "unauthorized root", "sudo abuse", "setuid",
			},
			Severity:    models.SeverityCritical,
			Context:     []string{"operating system"},
			Impact:      []string{"full host compromise"},
			Mitigations: []string{"Audit sudoers and setuid binaries", "Patch known local privilege escalation vulnerabilities", "Enable privileged-command auditing"},
		},
		{
			Category: "bruteforce",
			Patterns: []string{
				"failed login", "authentication failure", "invalid password",
				"failed password", "login failed", "too many authentication failures",
			},
			Severity:    models.SeverityHigh,
			Context:     []string{"authentication service", "ssh", "web login"},
			Impact:      []string{"account takeover"},
			Mitigations: []string{"Enforce account lockout and exponential backoff on failed logins", "Require multi-factor authentication", "Block offending source addresses"},
		},
		{
			Category: "xss",
			Patterns: []string{
				"<script>", "alert(", "onerror=", "onload=", "javascript:",
			},
			Severity:    models.SeverityHigh,
			Context:     []string{"web application"},
			Impact:      []string{"session hijacking", "credential theft"},
			Mitigations: []string{"Encode output and sanitize HTML input", "Set a restrictive Content-Security-Policy", "Mark session cookies HttpOnly"},
		},
		{
			Category: "path_traversal",
			Patterns: []string{
				"../", "..\\", "path traversal", "/etc/passwd",
			},
			Severity:    models.SeverityHigh,
			Context:     []string{"web application", "file server"},
			Impact:      []string{"sensitive file disclosure"},
			Mitigations: []string{"Canonicalize and validate file paths against an allow-list", "Run services with minimal filesystem permissions"},
		},
		{
			Category: "portscan",
			Patterns: []string{
				"port scan", "nmap", "masscan", "connection attempt rejected",
			},
			Severity:    models.SeverityMedium,
			Context:     []string{"network"},
			Impact:      []string{"reconnaissance"},
			Mitigations: []string{"Rate-limit and alert on sequential connection attempts", "Close unused ports and restrict exposure with a firewall"},
		},
		{
			Category: "unauthorized_access",
			Patterns: []string{
				"unauthorized access", "access denied", "permission denied", "forbidden",
			},
			Severity:    models.SeverityMedium,
			Context:     []string{"application", "file server"},
			Impact:      []string{"policy violation"},
			Mitigations: []string{"Review access-control rules for the affected resource", "Alert on repeated denials from a single source"},
		},
	}
}
