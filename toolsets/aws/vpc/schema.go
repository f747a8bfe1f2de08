package awsvpc

func schemaVPCCreateVPC() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cidr_block":           map[string]any{"type": "string"},
			"name":                 map[string]any{"type": "string"},
			"tags":                 map[string]any{"type": "object"},
			"enable_dns_support":   map[string]any{"type": "boolean", "default": true},
			"enable_dns_hostnames": map[string]any{"type": "boolean", "default": true},
			"region":               map[string]any{"type": "string"},
		},
		"required": []string{"cidr_block"},
	}
}

func schemaVPCListVPCs() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vpc_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"region":  map[string]any{"type": "string"},
		},
	}
}

func schemaVPCCreateSubnet() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vpc_id":            map[string]any{"type": "string"},
			"cidr_block":        map[string]any{"type": "string"},
			"availability_zone": map[string]any{"type": "string"},
			"region":            map[string]any{"type": "string"},
		},
		"required": []string{"vpc_id", "cidr_block"},
	}
}

func schemaVPCListSubnets() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vpc_id":     map[string]any{"type": "string"},
			"subnet_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"region":     map[string]any{"type": "string"},
		},
	}
}

func schemaVPCCreateSecurityGroup() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"group_name":  map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"vpc_id":      map[string]any{"type": "string"},
			"region":      map[string]any{"type": "string"},
		},
		"required": []string{"group_name", "description"},
	}
}

func schemaVPCAddSecurityGroupRule() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"group_id":  map[string]any{"type": "string"},
			"direction": map[string]any{"type": "string", "enum": []string{"ingress", "egress"}},
			"protocol":  map[string]any{"type": "string"},
			"from_port": map[string]any{"type": "number"},
			"to_port":   map[string]any{"type": "number"},
			"cidr":      map[string]any{"type": "string"},
			"region":    map[string]any{"type": "string"},
		},
		"required": []string{"group_id", "protocol", "cidr"},
	}
}

func schemaVPCListSecurityGroups() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vpc_id":    map[string]any{"type": "string"},
			"group_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"region":    map[string]any{"type": "string"},
		},
	}
}
